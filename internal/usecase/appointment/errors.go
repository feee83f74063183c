package appointment

import (
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

// notFoundOr turns a repository miss into the given business code and
// wraps everything else as an infrastructure error.
func notFoundOr(err error, code string, op string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return fmt.Errorf("%s: %w", op, err)
}
