package backup

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"howett.net/plist"
)

// Sidecar file names.
const (
	StatusPlist   = "Status.plist"
	ManifestPlist = "Manifest.plist"
	InfoPlist     = "Info.plist"
	ManifestMbdb  = "Manifest.mbdb"
)

// Fixed values the restore tool expects in the sidecars.
const (
	statusBackupState    = "new"
	statusSnapshotState  = "finished"
	statusVersion        = "2.4"
	manifestVersion      = "9.1"
	DefaultDomainVersion = "20.0"
)

// Status is the content of Status.plist.
type Status struct {
	BackupState   string    `plist:"BackupState"`
	Date          time.Time `plist:"Date"`
	IsFullBackup  bool      `plist:"IsFullBackup"`
	SnapshotState string    `plist:"SnapshotState"`
	UUID          string    `plist:"UUID"`
	Version       string    `plist:"Version"`
}

// Manifest is the content of Manifest.plist.
type Manifest struct {
	BackupKeyBag         []byte                 `plist:"BackupKeyBag"`
	Lockdown             map[string]interface{} `plist:"Lockdown"`
	SystemDomainsVersion string                 `plist:"SystemDomainsVersion"`
	Version              string                 `plist:"Version"`
	Applications         map[string]interface{} `plist:"Applications,omitempty"`
}

func newStatus() Status {
	return Status{
		BackupState:   statusBackupState,
		Date:          time.Unix(0, 0).UTC(),
		IsFullBackup:  false,
		SnapshotState: statusSnapshotState,
		UUID:          uuid.Nil.String(),
		Version:       statusVersion,
	}
}

func newManifest(domainsVersion string, applications map[string]interface{}) Manifest {
	if domainsVersion == "" {
		domainsVersion = DefaultDomainVersion
	}
	m := Manifest{
		BackupKeyBag:         BackupKeyBag(),
		Lockdown:             map[string]interface{}{},
		SystemDomainsVersion: domainsVersion,
		Version:              manifestVersion,
	}
	if len(applications) > 0 {
		m.Applications = applications
	}
	return m
}

// ParseManifest decodes a Manifest.plist in any plist format.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := plist.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest plist: %w", err)
	}
	return &m, nil
}

// ParseStatus decodes a Status.plist in any plist format.
func ParseStatus(data []byte) (*Status, error) {
	var s Status
	if _, err := plist.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse status plist: %w", err)
	}
	return &s, nil
}

func marshalBinary(v interface{}) ([]byte, error) {
	return plist.Marshal(v, plist.BinaryFormat)
}
