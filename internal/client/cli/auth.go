package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/immiconsole/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in through the auth gateway.
// Login failures are shown to the operator and are not returned as errors;
// only I/O and storage problems are.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	sess, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		var le *services.LoginError
		if errors.As(err, &le) {
			printlnFn(le.Message)
			return nil
		}
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s (%s).", sess.Email, sess.Role))
	return nil
}

// Logout clears the session. Logging out twice is harmless.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	sess, _, ok := a.store.Current()
	if !ok {
		printlnFn("Not logged in.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s, role %s", sess.Email, sess.Role))
	return nil
}
