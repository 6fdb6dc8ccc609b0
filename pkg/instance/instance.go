package instance

import "os"

// GetID returns the identifier of this process for log correlation. Deploys
// set FLEETY_INSTANCE_ID per replica; the fallback covers local runs.
func GetID() string {
	if id := os.Getenv("FLEETY_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return "local-0"
}
