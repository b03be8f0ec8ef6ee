/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1005

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1006
)

// 2xxx: Messaging and Group Business Logic Errors
const (
	// ErrGroupNotFound indicates that the referenced group does not exist.
	ErrGroupNotFound = 2101

	// ErrInvalidGroupMembers indicates that one or more requested group member ids
	// do not resolve to existing users.
	ErrInvalidGroupMembers = 2102

	// ErrGroupNameRequired indicates that group creation was attempted without a name.
	ErrGroupNameRequired = 2103

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrFileSizeTooLarge indicates that an uploaded file exceeded the size limit.
	ErrFileSizeTooLarge = 2202

	// ErrFileTypeInvalid indicates that an uploaded file has a disallowed type or extension.
	ErrFileTypeInvalid = 2203
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates that the request lacks a valid identity token.
	ErrUnauthorized = 3001

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure while talking to the object storage service.
	ErrFileStorageFailed = 5001
)
