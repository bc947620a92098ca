package output

import (
	"encoding/xml"
	"io"

	"github.com/validify-dev/validify/internal/model"
)

// JUnitFormatter renders a ValidationResult as JUnit XML: one
// testsuite for the run, one testcase per recorded assertion.
type JUnitFormatter struct {
	w io.Writer
}

func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{w: w}
}

type junitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	TestCases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string        `xml:"name,attr"`
	Classname string      `xml:"classname,attr"`
	Failure *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

func (f *JUnitFormatter) Format(result *model.ValidationResult) error {
	suite := junitTestSuite{
		Name:     result.ProfileName,
		Tests:    len(result.Assertions),
		Failures: result.TotalFailedChecks,
	}

	for _, a := range result.Assertions {
		tc := junitTestCase{
			Name:      a.Location.Context,
			Classname: a.RuleID,
		}
		if !a.Passed {
			tc.Failure = &junitFailure{Message: a.Message, Content: a.Message}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	if _, err := f.w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(f.w)
	enc.Indent("", "  ")
	return enc.Encode(suite)
}
