// Package domain contains the core entities of the mastery API and their
// validation rules. Entities are plain structs; all derived-metric
// computation lives in the progress subpackage and all persistence concerns
// live behind the store interfaces.
package domain
