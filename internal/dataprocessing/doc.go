// Package dataprocessing loads questionnaire responses into an in-memory table
// and runs the cleaning steps over it.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Loader: decodes a JSON document (records, columns or lines) into a Table
// 2. Table operations: age histogram, email filter and grade imputation
// 3. QuestionnaireAnalysis: owns the loaded table and runs the steps in order
//
// # Usage
//
//	analysis, err := dataprocessing.NewQuestionnaireAnalysis("data.json")
//	if err != nil {
//	    return err
//	}
//	result, err := analysis.Run(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Ages.Counts, result.Cleaned().Len())
//
// # Data Flow
//
//	JSON file → Load → Table → AgeDistribution
//	                         → RemoveRowsWithoutValidEmail → Valid → ImputeMissing → Cleaned
//
// A Table is never modified. Every operation returns new tables whose rows
// are indexed from 0; Row.Origin keeps the position the row had when loaded.
//
// # Error Handling
//
// Errors are *errors.AppError values:
//
//   - INVALID_ARGUMENT and NOT_FOUND from the constructors
//   - PARSING for invalid JSON, FORMAT for JSON that is not a flat table
//   - MISSING_COLUMN when a required column is absent
//   - INVALID_STATE when Load is called twice or a step runs before Load
package dataprocessing
