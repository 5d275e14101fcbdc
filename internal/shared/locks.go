package shared

import "fmt"

// ReportLockKey builds the lock key serialising report generation per tenant.
func ReportLockKey(tenantID string) string {
	return fmt.Sprintf("reports:%s:lock", tenantID)
}

// ImportLockKey builds the lock key for exclusive import maintenance tasks.
func ImportLockKey(tenantID string) string {
	return fmt.Sprintf("imports:%s:lock", tenantID)
}
