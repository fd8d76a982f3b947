package domain

import (
	"fmt"
	"strings"
)

// instanceSep joins a host and an instance into a single wire identifier.
const instanceSep = ":"

// Target identifies a monitored entity: either a compute host on its own or
// a single instance running on that host.
//
// The zero value is not a valid target. Use Host, HostInstance or ParseTarget.
type Target struct {
	host     string
	instance string
}

// Host returns a target addressing the host itself.
func Host(host string) Target {
	return Target{host: host}
}

// HostInstance returns a target addressing one instance on a host.
func HostInstance(host, instance string) Target {
	return Target{host: host, instance: instance}
}

// ParseTarget parses the CLI form of a target: "host" or "host:instance".
// The string is split on the first separator, so instance identifiers may
// themselves contain colons.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	host, instance, hasInstance := strings.Cut(s, instanceSep)
	if host == "" {
		return Target{}, fmt.Errorf("invalid target %q: host is required", s)
	}
	if !hasInstance {
		return Host(host), nil
	}
	if instance == "" {
		return Target{}, fmt.Errorf("invalid target %q: instance is empty", s)
	}
	return HostInstance(host, instance), nil
}

// HostName returns the host part of the target.
func (t Target) HostName() string { return t.host }

// Instance returns the instance identifier and whether one is set.
func (t Target) Instance() (string, bool) {
	return t.instance, t.instance != ""
}

// IsZero reports whether t is the zero Target.
func (t Target) IsZero() bool { return t.host == "" && t.instance == "" }

// ID returns the identifier used in resource paths: the bare host, or
// "host:instance" when an instance is set.
func (t Target) ID() string {
	if t.instance == "" {
		return t.host
	}
	return t.host + instanceSep + t.instance
}

// String implements fmt.Stringer.
func (t Target) String() string { return t.ID() }
