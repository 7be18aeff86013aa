package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("chart.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "chart.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "chart.yaml:12")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("options.series[0].field", "field is required", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "options.series[0].field", validationErr.Field)
	require.Contains(t, err.Error(), "field is required")
}

func TestChartErrorMatchesSentinelByCode(t *testing.T) {
	t.Parallel()

	err := InvalidState("update", "created")
	require.ErrorIs(t, err, ErrInvalidState)
	require.NotErrorIs(t, err, ErrNotFound)
	require.Equal(t, CodeInvalidState, CodeOf(err))

	wrapped := fmt.Errorf("render: %w", NotFound("#missing"))
	require.ErrorIs(t, wrapped, ErrNotFound)
	require.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestChartErrorFormatting(t *testing.T) {
	t.Parallel()

	plain := &ChartError{Code: CodeNotImplemented, Message: "svg export is not implemented"}
	require.Equal(t, "NOT_IMPLEMENTED: svg export is not implemented", plain.Error())

	cause := stdErrors.New("source offline")
	failure := RenderFailure("c-1", cause)
	require.Equal(t, "RENDER_FAILURE: render failed: source offline", failure.Error())
	require.ErrorIs(t, failure, cause)
	require.Equal(t, "c-1", failure.Context["chart_id"])
}

func TestChartErrorWithContextClones(t *testing.T) {
	t.Parallel()

	err := UnsupportedType("chart type", "radar")
	updated := err.WithContext(map[string]interface{}{"chart_id": "abc"})

	require.NotSame(t, err, updated)
	require.Equal(t, "radar", updated.Context["chart type"])
	require.Equal(t, "abc", updated.Context["chart_id"])
	require.NotContains(t, err.Context, "chart_id")
}

func TestChartErrorNilReceiver(t *testing.T) {
	t.Parallel()

	var err *ChartError
	require.Equal(t, "<nil>", err.Error())
	require.Nil(t, err.Unwrap())
	require.Nil(t, err.WithContext(map[string]interface{}{"k": "v"}))
	require.Equal(t, ErrorCode(""), CodeOf(stdErrors.New("plain")))
}
