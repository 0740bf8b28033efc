package validation

// ErrorKind names a locally recoverable validation failure. Kinds are data
// carried in evaluation results; they are never returned as Go errors.
type ErrorKind string

// Identifier and form kinds
const (
	RequiredFieldMissing ErrorKind = "required_field_missing"
	NameTooLong          ErrorKind = "name_too_long"
	InvalidAPINameFormat ErrorKind = "invalid_api_name_format"
	DuplicateName        ErrorKind = "duplicate_name"
	DuplicateAPIName     ErrorKind = "duplicate_api_name"
	ReservedNameClash    ErrorKind = "reserved_name_clash"
	TypeRequired         ErrorKind = "type_required"
)

// Field type sub-form kinds
const (
	LinkedTableMissing    ErrorKind = "linked_table_missing"
	LinkedTableUnknown    ErrorKind = "linked_table_unknown"
	DuplicateSelectOption ErrorKind = "duplicate_select_option"
	InvalidDateFormat     ErrorKind = "invalid_date_format"
)

var messages = map[ErrorKind]string{
	RequiredFieldMissing:  "This field is required.",
	NameTooLong:           "This value is too long.",
	InvalidAPINameFormat:  "Only lowercase letters, digits and single underscores are allowed, and it may not start or end with an underscore.",
	DuplicateName:         "A sibling with this name already exists.",
	DuplicateAPIName:      "A sibling with this API name already exists.",
	ReservedNameClash:     "This name is reserved.",
	TypeRequired:          "Choose a field type.",
	LinkedTableMissing:    "Choose the table to link to.",
	LinkedTableUnknown:    "The selected table does not exist in this database.",
	DuplicateSelectOption: "Select options must be unique.",
	InvalidDateFormat:     "Unsupported date format.",
}

// Message returns the default English text for the kind.
func (k ErrorKind) Message() string {
	if m, ok := messages[k]; ok {
		return m
	}
	return string(k)
}

func (k ErrorKind) String() string { return string(k) }
