package serials

type VoidRequest struct {
	VoidedUser string `json:"voided_user"`
}
