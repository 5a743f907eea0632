package api

// Wire-level status and error codes. These are part of the contract with
// the external platform and must stay stable.
const (
	CodeOkay                 = 0
	CodeNoTitleGiven         = 1
	CodeNoContentGiven       = 2
	CodeNoAuthorGiven        = 3
	CodeNoStatusGiven        = 4
	CodeUnknownPostType      = 5
	CodeUnknownPostCategory  = 6
	CodeCreateUser           = 7
	CodeUserPermissionDenied = 8
	CodeUserNotFound         = 9
	CodePublishPost          = 10
	CodeObjectInvalid        = 11
	CodeUnknownMethod        = 12
	CodeNotFound             = 13
	CodeGeneral              = 14
	CodeNoBody               = 15
)
