package student

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-portal/internal/types"
)

// payload is a create or update body. Pointers tell "absent" from
// "present", which PATCH needs. "des" is accepted as an older name for
// "description".
type payload struct {
	Name        *string  `json:"name"`
	Email       *string  `json:"email"`
	Phone       *string  `json:"phone"`
	Gender      *string  `json:"gender"`
	Age         *flexInt `json:"age"`
	Education   *string  `json:"education"`
	Description *string  `json:"description"`
	Des         *string  `json:"des"`
}

// apply copies every present, non-empty field onto s.
func (p payload) apply(s *types.Student) {
	setString(&s.Name, p.Name)
	setString(&s.Email, p.Email)
	setString(&s.Phone, p.Phone)
	if p.Gender != nil && *p.Gender != "" {
		s.Gender = types.Gender(*p.Gender)
	}
	if p.Age != nil && *p.Age != 0 {
		s.Age = int(*p.Age)
	}
	if p.Education != nil && *p.Education != "" {
		s.Education = types.Education(*p.Education)
	}
	setString(&s.Description, p.Des)
	setString(&s.Description, p.Description)
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

// flexInt accepts 21 as well as "21": form posts send numbers as strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("age must be a number, got %q", s)
		}
		*n = flexInt(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("age must be a whole number")
	}
	*n = flexInt(v)
	return nil
}
