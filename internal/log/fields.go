package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldPeriod    = "period"
	FieldExpenseID = "expense_id"
	FieldAssetID   = "asset_id"
	FieldAmount    = "amount"
	FieldCategory  = "category"
	FieldDate      = "date"
	FieldCount     = "count"
	FieldSheetsRef = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentLedger   = "ledger"
	ComponentBudget   = "budget"
	ComponentAssets   = "assets"
	ComponentExchange = "exchange"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentWorker   = "worker"
	ComponentSheets   = "sheets"
)

// Operations defines standard operation names
const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpSave    = "save"
	OpMerge   = "merge"
	OpImport  = "import"
	OpExport  = "export"
	OpEncode  = "encode"
	OpDecode  = "decode"
	OpRefresh = "refresh"
	OpAppend  = "append"
	OpStartup = "startup"
)
