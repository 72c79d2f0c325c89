package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldCategoryID  = "category_id"
	FieldCategory    = "category"
	FieldTxnID       = "transaction_id"
	FieldTemplateID  = "template_id"
	FieldFlowType    = "flow_type"
	FieldAmountCents = "amount_cents"
	FieldAction      = "action"
	FieldQueue       = "queue"
	FieldExchange    = "exchange"
)

// Standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRecurring = "recurring"
	ComponentSummary   = "summary"
)
