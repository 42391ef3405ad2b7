package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteConfigError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBEmptyDatabaseError
	DBNotConnectedError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBUnsupportedDriverError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaReferenceLoadError
	SchemaCatalogReadError

	// Reference errors
	ReferenceDecodeError
	ReferenceIntegrityError
	ReferenceNotFoundError
	MoleculeNotFoundError

	// Cache errors
	CacheWriteError
	CacheReadError
	CacheHashCollisionError
	CacheBlobDriverError

	// Import errors
	ImportInputError
	ImportAlignError
	ImportInsertError
	ImportParanoidError
	ImportAllFailedError

	// Query errors
	QuerySyntaxError
	QueryPropertyError
	QueryUnknownElementError
	QueryModeError
	QueryNotReadOnlyError
	QueryExecError

	// Store errors
	StoreReadError
	StoreWriteError
	StoreSampleNotFoundError
)

// Class groups error codes by the way a caller should react to them.
type Class int

const (
	// ClassUnknown is for codes outside of the taxonomy.
	ClassUnknown Class = iota
	// ClassInput errors abort only the offending item.
	ClassInput
	// ClassIntegrity errors are fatal for the affected entity and are never
	// repaired automatically.
	ClassIntegrity
	// ClassResource errors come from file system or store I/O. Only transient
	// connectivity failures are retried.
	ClassResource
	// ClassQuery errors are rejected before any store access.
	ClassQuery
)

// String returns the name of the class.
func (c Class) String() string {
	switch c {
	case ClassInput:
		return "input"
	case ClassIntegrity:
		return "integrity"
	case ClassResource:
		return "resource"
	case ClassQuery:
		return "query"
	default:
		return "unknown"
	}
}

// ClassOf returns the class of an error code.
func ClassOf(code gn.ErrorCode) Class {
	switch code {
	case ImportInputError, ReferenceNotFoundError, MoleculeNotFoundError,
		ReferenceDecodeError:
		return ClassInput
	case ReferenceIntegrityError, CacheHashCollisionError, ImportParanoidError:
		return ClassIntegrity
	case QuerySyntaxError, QueryPropertyError, QueryUnknownElementError,
		QueryModeError, QueryNotReadOnlyError:
		return ClassQuery
	case UnknownError:
		return ClassUnknown
	default:
		return ClassResource
	}
}
