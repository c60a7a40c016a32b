package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldRequestID   = "request_id"
	FieldTxnID       = "txn_id"
	FieldLocalID     = "local_id"
	FieldAmount      = "amount"
	FieldKind        = "kind"
	FieldCategory    = "category"
	FieldLoadSeq     = "load_seq"
	FieldCount       = "count"
	FieldStatusCode  = "status_code"
	FieldURL         = "url"
	FieldQueue       = "queue"
	FieldExchange    = "exchange"
	FieldBackendType = "backend_type"
	FieldStreamType  = "stream_type"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentLedger    = "ledger"
	ComponentTransport = "transport"
	ComponentStream    = "stream"
	ComponentNotify    = "notify"
	ComponentCache     = "cache"
	ComponentConfig    = "config"
	ComponentCLI       = "cli"
)
