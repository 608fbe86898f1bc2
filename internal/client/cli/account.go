package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/common"
)

// Register prompts for the account fields and creates the account. It does
// not sign in.
func (a *App) Register(ctx context.Context) error {
	var r models.Registration
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Enter username", &r.Username},
		{"Enter email", &r.Email},
		{"Enter full name", &r.FullName},
		{"Enter date of birth (YYYY-MM-DD)", &r.DateOfBirth},
	}
	for _, p := range prompts {
		v, err := getSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	male, err := GetYesNo(a.reader, "Male?", nil, a.out)
	if err != nil {
		return err
	}
	r.Male = male != nil && *male

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, r, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered! You can log in now.")
	return nil
}

// Login prompts for credentials, signs in and loads the profile.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, userName, password); err != nil {
		a.log.Info(ctx, "login unsuccessful", "error", err)
		return err
	}

	a.log.Info(ctx, "login successful")
	fmt.Fprintf(a.out, "Welcome, %s!\n", a.status())
	return nil
}

// Forgot runs the password recovery flow: a code is mailed to the account's
// address, and entering it back makes the backend issue a new password.
// A blank code stops after the first step.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter your email", a.out)
	if err != nil {
		return err
	}
	msg, err := a.auth.ResetPassword(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, orDefault(msg, "A code was sent to your email."))

	otp, err := getSimpleText(a.reader, "Enter the code (blank to stop)", a.out)
	if err != nil || otp == "" {
		return err
	}
	msg, err = a.auth.VerifyOTP(ctx, email, otp)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, orDefault(msg, "Code accepted."))
	return nil
}

// Reset signs out and wipes everything the reader keeps on disk.
func (a *App) Reset(ctx context.Context) error {
	answer, err := GetYesNo(a.reader, "Remove all local data?", nil, a.out)
	if err != nil {
		return err
	}
	if answer == nil || !*answer {
		fmt.Fprintln(a.out, "Nothing removed.")
		return nil
	}

	a.auth.Logout(ctx)

	entries, err := a.local.List(ctx)
	if err != nil {
		return err
	}
	if err := a.local.Clear(ctx); err != nil {
		return err
	}
	a.log.Info(ctx, "local data cleared", "entries", len(entries))
	fmt.Fprintf(a.out, "Removed %d local entries.\n", len(entries))
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Logout clears the session locally and tells the backend. It works when
// already signed out.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// WhoAmI prints the loaded profile.
func (a *App) WhoAmI(ctx context.Context) error {
	p := a.auth.Current()
	if p.IsGuest() {
		return common.ErrAuthRequired
	}

	fmt.Fprintf(a.out, "ID:            %s\n", p.ID)
	fmt.Fprintf(a.out, "Full name:     %s\n", p.FullName)
	fmt.Fprintf(a.out, "Email:         %s\n", p.Email)
	fmt.Fprintf(a.out, "Date of birth: %s\n", p.DateOfBirth)
	if p.IsMale != nil {
		gender := "female"
		if *p.IsMale {
			gender = "male"
		}
		fmt.Fprintf(a.out, "Gender:        %s\n", gender)
	}
	fmt.Fprintf(a.out, "Bookmarks:     %d\n", p.Bookmarks.Len())

	if a.slot != nil {
		if at, ok, err := a.slot.SavedAt(ctx); err != nil {
			a.log.Warn(ctx, "couldn't read credential age", "error", err)
		} else if ok {
			fmt.Fprintf(a.out, "Signed in:     %s\n", at.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// Profile edits full name, date of birth and gender. A blank answer keeps
// the current value.
func (a *App) Profile(ctx context.Context) error {
	p := a.auth.Current()
	if p.IsGuest() {
		return common.ErrAuthRequired
	}

	change := models.ProfileChange{FullName: p.FullName, DateOfBirth: p.DateOfBirth}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Full name [%s]", p.FullName), a.out)
	if err != nil {
		return err
	}
	if name != "" {
		change.FullName = name
	}

	dob, err := getSimpleText(a.reader, fmt.Sprintf("Date of birth [%s]", p.DateOfBirth), a.out)
	if err != nil {
		return err
	}
	if dob != "" {
		change.DateOfBirth = dob
	}

	male, err := GetYesNo(a.reader, "Male?", p.IsMale, a.out)
	if err != nil {
		return err
	}
	change.Male = male != nil && *male

	if err := a.auth.UpdateProfile(ctx, change); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// Passwd changes the account password after asking for the new one twice.
func (a *App) Passwd(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrAuthRequired
	}

	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		common.WipeByteArray(oldPassword)
		return err
	}
	defer common.WipeByteArray(oldPassword)
	defer common.WipeByteArray(newPassword)

	confirm, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	if !bytes.Equal(newPassword, confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrInvalidArgument)
	}

	if err := a.auth.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
