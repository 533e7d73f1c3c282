// Package app wires the gpacalc web service: configuration, logging,
// OpenTelemetry, services, the chi router and the HTTP server.
//
// Usage:
//
//	application, err := app.NewApplication(configFile)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes telemetry. Initialization errors are
// returned to the caller; the package never calls os.Exit.
package app
