package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"
	ErrNotImplemented  ErrorCode = "not_implemented"
	ErrUnavailable     ErrorCode = "service_unavailable"

	// Configuration errors
	ErrInvalidConfig    ErrorCode = "invalid_configuration"
	ErrBindFlags        ErrorCode = "bind_flags_failed"
	ErrReadConfig       ErrorCode = "read_config_failed"
	ErrInvalidInterval  ErrorCode = "invalid_interval"
	ErrInvalidThreshold ErrorCode = "invalid_threshold"
	ErrInvalidPlanID    ErrorCode = "invalid_plan_id"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrOpenLogFile     ErrorCode = "open_log_file_failed"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Platform errors
	ErrUnsupportedPlatform ErrorCode = "unsupported_platform"

	// Application errors
	ErrInitApp    ErrorCode = "init_app_failed"
	ErrSampleCPU  ErrorCode = "sample_cpu_failed"
	ErrSetPlan    ErrorCode = "set_power_plan_failed"
	ErrQueryPlan  ErrorCode = "query_power_plan_failed"
	ErrListPlans  ErrorCode = "list_power_plans_failed"
	ErrMonitoring ErrorCode = "monitoring_failed"

	// Operation errors
	ErrOperationFailed  ErrorCode = "operation_failed"
	ErrTimeout          ErrorCode = "operation_timeout"
	ErrInvalidOperation ErrorCode = "invalid_operation"

	// Journal errors
	ErrInitJournal   ErrorCode = "init_journal_failed"
	ErrRecordJournal ErrorCode = "record_journal_failed"
	ErrCloseJournal  ErrorCode = "close_journal_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:            "Internal error occurred",
	ErrInvalidArgument:     "Invalid argument provided",
	ErrNotImplemented:      "Operation not implemented",
	ErrUnavailable:         "Service unavailable",
	ErrInvalidConfig:       "Invalid configuration",
	ErrBindFlags:           "Failed to bind flags",
	ErrReadConfig:          "Failed to read config file",
	ErrInvalidInterval:     "Invalid interval value",
	ErrInvalidThreshold:    "Invalid CPU threshold",
	ErrInvalidPlanID:       "Invalid power plan identifier",
	ErrInvalidLogLevel:     "Invalid log level",
	ErrOpenLogFile:         "Failed to open log file",
	ErrInitFailed:          "Initialization failed",
	ErrShutdownFailed:      "Shutdown failed",
	ErrAlreadyRunning:      "Another instance is already running",
	ErrUnsupportedPlatform: "Power plans are not supported on this platform",
	ErrInitApp:             "Failed to initialize application",
	ErrSampleCPU:           "Failed to sample CPU usage",
	ErrSetPlan:             "Failed to set power plan",
	ErrQueryPlan:           "Failed to query active power plan",
	ErrListPlans:           "Failed to list power plans",
	ErrMonitoring:          "Error while monitoring",
	ErrOperationFailed:     "Operation failed",
	ErrTimeout:             "Operation timed out",
	ErrInvalidOperation:    "Invalid operation",
	ErrInitJournal:         "Failed to initialize journal",
	ErrRecordJournal:       "Failed to record journal entry",
	ErrCloseJournal:        "Failed to close journal",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
