package extract

// Recognized suggestion target fields. These name the editable sections of
// a process record in the tracking application.
const (
	FieldCharter  = "charter"
	FieldWorkflow = "workflow"
	FieldInputs   = "inputs"
	FieldOutputs  = "outputs"
	FieldOwners   = "owners"
	FieldMetrics  = "metrics"
	FieldRisks    = "risks"
)

// validField reports whether s is a recognized suggestion target field.
func validField(s string) bool {
	_, ok := fieldLabels[s]
	return ok
}

// fieldLabels maps recognized target fields to human-readable labels and
// doubles as the set of valid fields.
var fieldLabels = map[string]string{
	FieldCharter:  "Process Charter",
	FieldWorkflow: "Workflow Diagram",
	FieldInputs:   "Key Inputs",
	FieldOutputs:  "Key Outputs",
	FieldOwners:   "Process Owners",
	FieldMetrics:  "Linked Metrics",
	FieldRisks:    "Risks & Controls",
}

// FieldLabel returns the display label for a suggestion target field.
// Unknown fields return ok=false; callers typically fall back to the raw
// field name.
func FieldLabel(field string) (label string, ok bool) {
	label, ok = fieldLabels[field]
	return label, ok
}
