package quote

const (
	StatusDraft   = "draft"
	StatusCreated = "created"
	StatusSaved   = "saved"
)
