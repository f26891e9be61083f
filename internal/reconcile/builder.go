package reconcile

import (
	"strconv"

	"qcr/internal/domain"
)

// BuildPayload shapes a ChangeSet into the body the case endpoint accepts.
// Custom fields collapse into a map keyed by the stringified field id.
// An empty ChangeSet yields an empty payload.
func BuildPayload(cs ChangeSet) domain.UpdatePayload {
	var p domain.UpdatePayload
	if cs.IsEmpty() {
		return p
	}
	if len(cs.Fields) > 0 {
		p.Fields = make(map[string]string, len(cs.Fields))
		for k, v := range cs.Fields {
			p.Fields[k] = v
		}
	}
	p.Steps = cs.Steps
	if len(cs.CustomFields) > 0 {
		p.CustomField = make(map[string]string, len(cs.CustomFields))
		for _, cf := range cs.CustomFields {
			p.CustomField[strconv.FormatInt(cf.ID, 10)] = cf.Value
		}
	}
	return p
}
