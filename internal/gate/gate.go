// Package gate maps session state and a path to the screen that should be
// shown. It holds no state of its own.
package gate

import "strings"

// Screens.
const (
	ScreenLanding  = "landing"
	ScreenLogin    = "login"
	ScreenSignup   = "signup"
	ScreenHome     = "home"
	ScreenLibrary  = "library"
	ScreenArticles = "articles"
	ScreenAdmin    = "admin"
)

// Paths.
const (
	PathRoot     = "/"
	PathLogin    = "/login"
	PathSignup   = "/signup"
	PathLibrary  = "/library"
	PathArticles = "/articles"
	PathAdmin    = "/admin"
)

type Kind int

const (
	Render Kind = iota
	Redirect
	Placeholder
)

func (k Kind) String() string {
	switch k {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// State is the part of a session the gate looks at.
type State struct {
	Loading       bool
	Authenticated bool
	IsAdmin       bool
}

// Decision tells the caller what to do with a navigation.
// Screen is set for Render, Location for Redirect.
type Decision struct {
	Kind     Kind
	Screen   string
	Location string
}

func render(screen string) Decision     { return Decision{Kind: Render, Screen: screen} }
func redirect(location string) Decision { return Decision{Kind: Redirect, Location: location} }

var placeholder = Decision{Kind: Placeholder}

// Public renders screen for anonymous visitors and sends signed-in users to
// the authenticated home.
func Public(s State, screen string) Decision {
	if s.Loading {
		return placeholder
	}
	if s.Authenticated {
		return redirect(PathRoot)
	}
	return render(screen)
}

// Protected renders screen for signed-in users only.
func Protected(s State, screen string) Decision {
	if s.Loading {
		return placeholder
	}
	if !s.Authenticated {
		return redirect(PathLogin)
	}
	return render(screen)
}

// AdminOnly renders screen for signed-in admins only.
func AdminOnly(s State, screen string) Decision {
	if s.Loading {
		return placeholder
	}
	if !s.Authenticated || !s.IsAdmin {
		return redirect(PathRoot)
	}
	return render(screen)
}

// Decide resolves path against the route table for the given state.
func Decide(s State, path string) Decision {
	if s.Loading {
		return placeholder
	}

	path = Clean(path)
	if !s.Authenticated {
		switch path {
		case PathRoot:
			return render(ScreenLanding)
		case PathLogin:
			return Public(s, ScreenLogin)
		case PathSignup:
			return Public(s, ScreenSignup)
		default:
			return redirect(PathRoot)
		}
	}

	switch path {
	case PathRoot:
		return render(ScreenHome)
	case PathLogin, PathSignup:
		return Public(s, "")
	case PathLibrary:
		return Protected(s, ScreenLibrary)
	case PathArticles:
		return Protected(s, ScreenArticles)
	case PathAdmin:
		return AdminOnly(s, ScreenAdmin)
	default:
		return redirect(PathLibrary)
	}
}

// Clean normalises a request path: query strings and trailing slashes are
// dropped and a missing leading slash is added.
func Clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = PathRoot
		}
	}
	return path
}
