package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Structure verifies code, vars and wrapping of every
// constructor.
func TestErrors_Structure(t *testing.T) {
	originalErr := errors.New("permission denied")

	tests := []struct {
		name   string
		err    error
		code   gn.ErrorCode
		inside string
	}{
		{
			name:   "CreateDirError",
			err:    CreateDirError("/test/dir", originalErr),
			code:   errcode.CreateDirError,
			inside: "cannot create",
		},
		{
			name:   "CopyFileError",
			err:    CopyFileError("/test/config.yaml", originalErr),
			code:   errcode.CopyFileError,
			inside: "cannot copy",
		},
		{
			name:   "ReadFileError",
			err:    ReadFileError("/test/data.csv", originalErr),
			code:   errcode.ReadFileError,
			inside: "/test/data.csv",
		},
		{
			name:   "WriteFileError",
			err:    WriteFileError("/test/out.csv", originalErr),
			code:   errcode.ReportWriteError,
			inside: "/test/out.csv",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")

			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			require.Len(t, gnErr.Vars, 1)

			assert.ErrorIs(t, gnErr.Err, originalErr,
				"Should wrap original error")
			assert.Contains(t, gnErr.Err.Error(), tt.inside)
			assert.Contains(t, gnErr.Err.Error(), "from ",
				"Should include caller information")
		})
	}
}
