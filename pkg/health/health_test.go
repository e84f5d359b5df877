package health

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverallStatus(t *testing.T) {
	c := NewChecker()
	assert.Equal(t, StatusHealthy, c.GetOverallStatus())

	c.RunCheck("a", func() error { return nil })
	c.RunCheck("b", func() error { return errors.New("ping timeout") })
	assert.Equal(t, StatusDegraded, c.GetOverallStatus())

	checks := c.GetAllChecks()
	assert.Len(t, checks, 2)
	assert.Equal(t, "a", checks[0].Name)
	assert.Equal(t, "ping timeout", checks[1].Message)

	c.Remove("a")
	assert.Equal(t, StatusUnhealthy, c.GetOverallStatus())
}
