package dashboard

import (
	"errors"

	"github.com/existflow/sheetboard/internal/sheets"
)

// Refresh failures. Any of them aborts the section's cycle and leaves the
// previously loaded records in place.
var (
	ErrCredentialsMissing = errors.New("sheet id or API key not configured")
	ErrAccessDenied       = errors.New("spreadsheet access denied")
	ErrNoData             = errors.New("sheet has no data")
)

// userMessage is the notification text for a failed refresh
func userMessage(section Section, err error) string {
	switch {
	case errors.Is(err, ErrCredentialsMissing):
		return "시트 설정을 확인해주세요."
	case errors.Is(err, ErrAccessDenied):
		return "시트 접근 권한을 확인해주세요."
	}
	switch section {
	case SectionCourses:
		return "과정 정보 로드에 실패했습니다."
	case SectionTodos:
		return "할 일 로드에 실패했습니다."
	default:
		return "데이터 로드에 실패했습니다."
	}
}

// placeholder is the inline text shown where a failed section would be
func placeholder(section Section) string {
	switch section {
	case SectionCourses:
		return "과정 정보를 불러올 수 없습니다."
	case SectionTodos:
		return "할 일을 불러올 수 없습니다."
	default:
		return "데이터를 불러올 수 없습니다."
	}
}

// IsTransport reports whether err came from a non-2xx API response
func IsTransport(err error) bool {
	var terr *sheets.TransportError
	return errors.As(err, &terr)
}
