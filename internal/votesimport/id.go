package votesimport

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func v5(ns uuid.UUID, name string) uuid.UUID {
	return uuid.NewSHA1(ns, []byte(name))
}

func MotionID(ns uuid.UUID, motionKey string) uuid.UUID {
	return v5(ns, "motion:"+motionKey)
}

func DecisionID(ns uuid.UUID, motionKey string) uuid.UUID {
	return v5(ns, "decision:"+motionKey)
}

func VoteID(ns uuid.UUID, motionKey string, index int) uuid.UUID {
	return v5(ns, fmt.Sprintf("vote:%s:%d", motionKey, index))
}

func CategoryID(ns uuid.UUID, title string) uuid.UUID {
	canon := strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(title)), " "))
	return v5(ns, "category:"+canon)
}

func MemberID(ns uuid.UUID, name string) uuid.UUID {
	return v5(ns, "member:"+name)
}
