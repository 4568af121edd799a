package session

// PressKeysRequest is the body of POST /api/sessions/:id/keys.
type PressKeysRequest struct {
	Keys []string `json:"keys" validate:"required,min=1,max=256,dive,required"`
}

// ConvertRequest is the body of POST /api/convert. An empty currency uses the
// active input currency.
type ConvertRequest struct {
	Expression string `json:"expression" validate:"required,max=512"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
}
