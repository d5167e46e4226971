package apperror

import "fmt"

// Logger is the subset of the application logger BestEffort needs.
type Logger interface {
	Warn(module, message string, details map[string]interface{})
}

// Critical marks an error on the primary path of an operation. Unclassified
// errors become persistence errors so the caller sees a 5xx.
func Critical(msg string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return Persistence(msg, err)
}

// BestEffort runs a side effect whose failure must not fail the caller. The
// error (or recovered panic) is logged at Warn and returned so callers and
// tests can still observe it.
func BestEffort(log Logger, module, action string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil && log != nil {
			log.Warn(module, action+" failed (continuing)", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
	return fn()
}
