package domain

// Client is a customer record.
// The validate tags are read by the service layer; FirstName, LastName and
// Email must be present and not whitespace-only. Email format is not checked.
type Client struct {
	ID        int64
	FirstName string `validate:"notblank"`
	LastName  string `validate:"notblank"`
	Email     string `validate:"notblank"`
	Telephone *string
	Pesel     *string // national identification number
}
