package model

// Identity is the operator's transport account
type Identity struct {
	Username string `json:"username"`
	Password string `json:"-"` // never serialized in the clear
	Remember bool   `json:"remember"`
}

// IsComplete reports whether both credentials have been entered
func (i Identity) IsComplete() bool {
	return i.Username != "" && i.Password != ""
}

// Draft is the last-used subject and remark text
type Draft struct {
	Subject string `json:"subject"`
	Remark  string `json:"remark"`
}
