package validation

import (
	"fmt"

	"github.com/yijongkuk/mdmd/pkg/envelope"
)

// FromEnvelope reports the degradations recorded while deriving e.
func FromEnvelope(e *envelope.Envelope) *Report {
	r := NewReport()
	if e == nil {
		r.AddError(Result{Level: LevelEnvelope, Message: "no envelope", Path: "envelope"})
		return r
	}
	for _, n := range e.Notes {
		res := Result{Level: LevelEnvelope, Message: n.Message, Path: "envelope"}
		if n.Floor > 0 {
			res.Path = fmt.Sprintf("envelope.floors[%d]", n.Floor-1)
			res.ActualValue = n.Floor
		}
		switch n.Severity {
		case envelope.SeverityError:
			r.AddError(res)
		case envelope.SeverityWarning:
			r.AddWarning(res)
		default:
			r.AddInfo(res)
		}
	}
	if e.Empty() && len(r.Errors) == 0 {
		r.AddError(Result{Level: LevelEnvelope, Message: "envelope has no buildable footprint", Path: "envelope.footprint"})
	}
	return r
}
