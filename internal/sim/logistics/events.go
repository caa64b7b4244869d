package logistics

import "skyharbor.ai/internal/protocol"

func (e *Engine) emit(ev protocol.Event) {
	e.eventsThisTick = append(e.eventsThisTick, ev)
}

func (e *Engine) auditEvent(entry AuditEntry) {
	if e.audit == nil {
		return
	}
	_ = e.audit.WriteAudit(entry)
}

// notifyDelivery is best-effort: a failing hook is logged and ignored.
func (e *Engine) notifyDelivery(dst PlatformState, item ItemID, count int, now uint64) {
	if e.effects == nil || count <= 0 {
		return
	}
	if err := e.effects.NotifyDelivery(dst, item, count, now); err != nil && e.log != nil {
		e.log.Printf("delivery effect for %s: %v", dst.ID, err)
	}
}
