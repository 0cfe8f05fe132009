// Package integrity validates the infrastructure the scene service relies on.
//
// # Checks Provided
//
//   - Structure: the datasets/ and scenes/ folders exist in the storage bucket.
//   - Datasets: every object under the dataset prefix has a readable format.
//   - Schema: the scene tables match the GORM models (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/datasets : Runs dataset check.
//   - GET /integrity/schema : Runs schema check, 503 without a database.
package integrity
