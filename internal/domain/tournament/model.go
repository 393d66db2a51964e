package tournament

import (
	"fmt"
	"strings"
	"time"
)

// Tournament is static reference data deposited by the external data loader.
type Tournament struct {
	ID            string
	Name          string
	StartDate     time.Time
	HasGroupStage bool
}

func (t Tournament) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("tournament id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("tournament name is required")
	}

	return nil
}
