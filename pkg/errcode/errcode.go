package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Input errors
	InputHeaderError
	InputRowError
	InputYearError
	InputValueError
	InputDuplicateKeyError
	InputShapeError
	InputTargetNotFoundError
	InputTargetAmbiguousError
	InputUnknownIndicatorError

	// Config errors
	ConfigThresholdError
	ConfigDropCountError
	ConfigNeighborsError
	ConfigFeaturesError
	ConfigTestRatioError
	ConfigPatternError
	ConfigForestError

	// Data quality errors
	DataEmptyTableError
	DataEmptyColumnError
	DataEmptySplitError
	DataNoDonorsWarning

	// Pipeline errors
	PipelineCancelledError

	// Report errors
	ReportWriteError
	ReportChartError
)

// Kind groups error codes by how the pipeline reacts to them.
type Kind int

const (
	UnknownKind Kind = iota
	// InputKind errors come from malformed input files. They are fatal.
	InputKind
	// ConfigKind errors are detected before any stage runs. They are fatal.
	ConfigKind
	// DataQualityKind errors describe degraded data. Only
	// DataNoDonorsWarning is non-fatal.
	DataQualityKind
	// ReportKind errors happen while writing artifacts and never affect
	// the computed result.
	ReportKind
	// SystemKind covers file system, logging and cancellation errors.
	SystemKind
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case InputKind:
		return "InputError"
	case ConfigKind:
		return "ConfigError"
	case DataQualityKind:
		return "DataQualityError"
	case ReportKind:
		return "ReportError"
	case SystemKind:
		return "SystemError"
	default:
		return "UnknownError"
	}
}

// KindOf returns the kind of an error code.
func KindOf(code gn.ErrorCode) Kind {
	switch {
	case code >= InputHeaderError && code <= InputUnknownIndicatorError:
		return InputKind
	case code >= ConfigThresholdError && code <= ConfigForestError:
		return ConfigKind
	case code >= DataEmptyTableError && code <= DataNoDonorsWarning:
		return DataQualityKind
	case code >= ReportWriteError && code <= ReportChartError:
		return ReportKind
	case code >= CreateDirError && code <= CreateLogFileError,
		code == PipelineCancelledError:
		return SystemKind
	default:
		return UnknownKind
	}
}

// KindOfErr returns the kind of the first *gn.Error found in the chain
// of err.
func KindOfErr(err error) Kind {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return KindOf(gnErr.Code)
	}
	return UnknownKind
}
