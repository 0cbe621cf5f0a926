package restore

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/types"
)

const crashReportTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>bug_type</key>
	<string>109</string>
	<key>incident_id</key>
	<string>%s</string>
	<key>crashReporterKey</key>
	<string>%s</string>
	<key>os_version</key>
	<string>iPhone OS</string>
	<key>timestamp</key>
	<string>1970-01-01 00:00:00.00 +0000</string>
</dict>
</plist>
`

// CrashReportDir is the domain-relative directory crash artifacts land in.
const CrashReportDir = "CrashReporter"

// crashReportMode is rw-r--r--: read for everyone, write for the owner.
const crashReportMode = types.ModeOwnerRead | types.ModeOwnerWrite | types.ModeGroupRead | types.ModeOtherRead

var newIdentifier = func() string {
	return strings.ToUpper(uuid.NewString())
}

// NewCrashReport builds the crash-report artifact for domain.
func NewCrashReport(domain string) *backup.ConcreteFile {
	incident := newIdentifier()
	reporterKey := newIdentifier()
	name := strings.ToLower(strings.ReplaceAll(newIdentifier(), "-", ""))

	contents := fmt.Sprintf(crashReportTemplate, incident, reporterKey)
	return backup.NewConcreteFile(
		domain,
		CrashReportDir+"/crash-"+name+".plist",
		[]byte(contents),
		backup.WithMode(crashReportMode),
	)
}
