package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
)

// maxAvatarSize keeps the base64 echo of the avatar within the client's
// response size limit.
const maxAvatarSize = 512 << 10

// readFile is a test seam for os.ReadFile.
var readFile = os.ReadFile

// Home shows the home view.
func (a *App) Home(ctx context.Context) error {
	return a.switchTo(ctx, models.ViewHome)
}

// Profile shows the profile view.
func (a *App) Profile(ctx context.Context) error {
	return a.switchTo(ctx, models.ViewProfile)
}

// Avatar uploads the image at path as the new avatar and re-renders the
// profile.
func (a *App) Avatar(ctx context.Context, path string) error {
	data, err := readFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err)
		return err
	}
	if len(data) > maxAvatarSize {
		err := fmt.Errorf("file is %d bytes, limit is %d", len(data), maxAvatarSize)
		printlnFn("Avatar too large:", err)
		return err
	}

	if err := a.submit(ctx, func() error { return a.session.UploadAvatar(ctx, data) }); err != nil {
		return err
	}
	if a.view() == models.ViewProfile {
		fmt.Fprintln(a.out, renderView(a.session.State()))
	}
	return nil
}

// Status prints connectivity and who is signed in.
func (a *App) Status(ctx context.Context) error {
	st := a.session.State()
	mode := a.getMode()
	if mode == "" {
		mode = "unknown"
	}
	who := "nobody"
	if st.User != nil {
		who = st.User.Email
	}
	fmt.Fprintf(a.out, "Server: %s\nSigned in: %s\nView: %s\n", mode, who, st.View)
	return nil
}

// getStatus is the prompt decoration: "(email mode)".
func (a *App) getStatus() string {
	s := ""
	if u := a.session.State().User; u != nil {
		s = u.Email + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", strings.TrimSpace(s))
	}
	return s
}

// renderView turns the session state into the text shown for its view.
func renderView(st models.SessionState) string {
	var b strings.Builder

	switch st.View {
	case models.ViewLogin:
		b.WriteString("== Sign in ==\n")
		b.WriteString("Sign in to your account: type 'login'.\n")
		b.WriteString("No account yet? Type 'register'.")

	case models.ViewRegister:
		b.WriteString("== Create account ==\n")
		b.WriteString("Type 'register' to enter your email, full name and password.\n")
		b.WriteString("Already registered? Type 'login'.")

	case models.ViewHome:
		if st.User == nil {
			return renderView(models.SessionState{View: models.ViewLogin, Loading: st.Loading})
		}
		fmt.Fprintf(&b, "== Welcome, %s! ==\n", st.User.FullName)
		b.WriteString("You are signed in.\n")
		b.WriteString("  home     account overview\n")
		b.WriteString("  profile  view your details\n")
		b.WriteString("  logout   end the session")

	case models.ViewProfile:
		u := st.User
		if u == nil {
			return renderView(models.SessionState{View: models.ViewLogin, Loading: st.Loading})
		}
		b.WriteString("== User profile ==\n")
		fmt.Fprintf(&b, "Full name: %s\n", u.FullName)
		fmt.Fprintf(&b, "Email:     %s\n", u.Email)
		fmt.Fprintf(&b, "User ID:   #%d\n", u.ID)
		if u.Phone != "" {
			fmt.Fprintf(&b, "Phone:     %s\n", u.Phone)
		}
		if u.Bio != "" {
			fmt.Fprintf(&b, "Bio:       %s\n", u.Bio)
		}
		if u.AvatarURL != "" {
			b.WriteString("Avatar:    set\n")
		} else {
			b.WriteString("Avatar:    none (type 'avatar <file>')\n")
		}
		b.WriteString("Type 'home' to go back or 'logout' to sign out.")

	default:
		fmt.Fprintf(&b, "unknown view %q", st.View)
	}

	if st.Loading {
		b.WriteString("\n(loading...)")
	}
	return b.String()
}
