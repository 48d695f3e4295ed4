package port

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(actor, action, resource, details, ip, userAgent string) error
}
