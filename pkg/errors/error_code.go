package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidLegSettings   ErrorCode = 102
	ErrCodeInvalidTimeWindow    ErrorCode = 103
	ErrCodeInvalidOrder         ErrorCode = 104
	ErrCodeConfigLocked         ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106

	// Market data errors (200-299)
	ErrCodeDataNotFound     ErrorCode = 200
	ErrCodeStaleData        ErrorCode = 201
	ErrCodeQueryFailed      ErrorCode = 202
	ErrCodeNoActiveExpiry   ErrorCode = 203
	ErrCodeNoStrikesFound   ErrorCode = 204
	ErrCodeSymbolParseError ErrorCode = 205

	// Strike selection errors (300-399)
	ErrCodeSpotUnavailable    ErrorCode = 300
	ErrCodePremiumUnavailable ErrorCode = 301
	ErrCodeSelectionFailed    ErrorCode = 302

	// State persistence errors (400-499)
	ErrCodeStateLoadFailed ErrorCode = 400
	ErrCodeStateSaveFailed ErrorCode = 401

	// Trading errors (500-599)
	ErrCodeOrderFailed      ErrorCode = 500
	ErrCodeOrderTimeout     ErrorCode = 501
	ErrCodePositionNotFound ErrorCode = 502

	// Engine errors (600-699)
	ErrCodeEngineInitFailed ErrorCode = 600
	ErrCodeEngineNotReady   ErrorCode = 601

	// Broker errors (700-799)
	ErrCodeBrokerLoginFailed ErrorCode = 700
	ErrCodeBrokerSessionLost ErrorCode = 701
	ErrCodeBrokerRejected    ErrorCode = 702
)
