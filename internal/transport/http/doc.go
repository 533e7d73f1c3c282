// Package http implements the HTTP handlers of the gpacalc web service.
// Handlers stay thin: they decode the request, call the service layer and
// shape the response. Every failure goes through errors.ErrorHandler so
// clients always receive RFC 7807 problem details.
//
// # Endpoints
//
//	POST /api/v1/gpa/calculate   multipart field "roster" (.xlsx, .xlsm or .csv)
//	                             ?format=json|xlsx|csv  ?id_column=  ?precision=
//	GET  /api/health             ?verbose=true adds dependency checks
//	GET  /api/version            build information
//
// A roster with missing columns or a student id listed under several
// institutions is answered with 422 and the offending columns or ids in the
// problem's extensions.
package http
