// Package files discovers roster files for batch processing.
//
// Discovery lists the supported rosters (.xlsx, .xlsm, .csv) directly inside
// a directory. Office lock files (~$name.xlsx) and summaries previously written
// by the exporter are skipped, so re-running a batch over the same directory
// never treats its own output as input.
//
// Example usage:
//
//	discovery := files.NewDiscovery("")
//	rosters, err := discovery.FindRosterFiles("/srv/results/2024")
//	if err != nil {
//	    return err
//	}
//	results := svc.ProcessBatch(ctx, files.Paths(rosters))
package files
