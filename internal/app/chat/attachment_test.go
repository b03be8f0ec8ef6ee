package chat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arshGoyalDev/chat-app-backend/internal/pkg/errs"
)

func TestValidateFileSize(t *testing.T) {
	require.Nil(t, ValidateFileSize(1))
	require.Nil(t, ValidateFileSize(MaxAttachmentSize))

	err := ValidateFileSize(0)
	require.NotNil(t, err)
	require.Equal(t, errs.ErrInvalidParams, err.Code)

	err = ValidateFileSize(MaxAttachmentSize + 1)
	require.NotNil(t, err)
	require.Equal(t, errs.ErrFileSizeTooLarge, err.Code)
}

func TestValidateFileType(t *testing.T) {
	require.Nil(t, ValidateFileType("photo.jpg", "image/jpeg"))
	require.Nil(t, ValidateFileType("DOC.PDF", "application/PDF"))

	// Unsupported MIME type.
	err := ValidateFileType("script.sh", "application/x-sh")
	require.NotNil(t, err)
	require.Equal(t, errs.ErrFileTypeInvalid, err.Code)

	// Extension disagrees with the declared MIME type.
	err = ValidateFileType("photo.png", "image/jpeg")
	require.NotNil(t, err)
	require.Equal(t, errs.ErrFileTypeInvalid, err.Code)

	// Missing extension.
	err = ValidateFileType("noextension", "image/jpeg")
	require.NotNil(t, err)
	require.Equal(t, errs.ErrFileTypeInvalid, err.Code)
}
