package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "bad period")
	suite.Equal("[100] bad period", err.Error())
	suite.Equal(ErrCodeInvalidParameter, GetCode(err))
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeDataNotFound, "no bars for symbol %s", "AAPL")
	suite.Equal("[200] no bars for symbol AAPL", err.Error())
}

func (suite *ErrorTestSuite) TestWrap() {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeQueryFailed, "failed to execute query", cause)
	suite.Contains(err.Error(), "connection refused")
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestWrapf() {
	cause := fmt.Errorf("boom")
	err := Wrapf(ErrCodeBacktestConfigError, cause, "bad config %q", "run.yaml")
	suite.True(HasCode(err, ErrCodeBacktestConfigError))
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCodeNonStructured() {
	suite.Equal(ErrCodeUnknown, GetCode(fmt.Errorf("plain error")))
}

func (suite *ErrorTestSuite) TestHasCodeWrappedChain() {
	inner := New(ErrCodeInvalidSeries, "bar series is empty")
	outer := fmt.Errorf("running strategy: %w", inner)
	suite.True(HasCode(outer, ErrCodeInvalidSeries))
}
