package worker

import (
	"github.com/supportdesk/reactivation-service/internal/events"
	"github.com/supportdesk/reactivation-service/internal/service"
)

// StartEventWorkers registers event subscribers. publisher may be nil when
// the NATS bridge is disabled.
func StartEventWorkers(dispatcher events.Dispatcher, audit *service.AuditService, publisher *events.NATSPublisher) {
	if dispatcher == nil {
		return
	}
	if audit != nil {
		audit.RegisterHandlers()
	}
	if publisher != nil {
		publisher.Register(dispatcher)
	}
}
