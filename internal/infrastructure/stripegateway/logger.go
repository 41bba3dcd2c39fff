package stripegateway

import (
	"fmt"

	"github.com/coachhub/coachhub/internal/shared/logger"
)

// leveledLogger routes stripe-go client logs into the application logger.
type leveledLogger struct {
	log logger.Interface
}

func (l leveledLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l leveledLogger) Infof(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l leveledLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...), "component", "stripe")
}

func (l leveledLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), "component", "stripe")
}
