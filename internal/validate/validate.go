// Package validate checks user-supplied names and ports before they
// reach the registry.
package validate

import (
	"fmt"
	"regexp"
)

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

const maxNameLen = 63

// ProjectName validates a project name.
func ProjectName(name string) error {
	return checkName("project name", name)
}

// ServiceName validates a service name.
func ServiceName(name string) error {
	return checkName("service name", name)
}

// TypeName validates a service type name.
func TypeName(name string) error {
	return checkName("type name", name)
}

func checkName(what, name string) error {
	if name == "" {
		return fmt.Errorf("%s must not be empty", what)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%s %q exceeds %d characters", what, name, maxNameLen)
	}
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%s %q must be lowercase letters, digits and dashes, starting with a letter", what, name)
	}
	return nil
}

// Port validates a TCP port number.
func Port(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d is outside 1-65535", port)
	}
	return nil
}
