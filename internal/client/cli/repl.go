package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/services"
	"github.com/dmitrijs2005/comicreader/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Comics(ctx context.Context) error
	Top(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Genres(ctx context.Context, genreIDs []string) error
	Comic(ctx context.Context, comicID string) error
	Chapters(ctx context.Context, comicID string) error
	Read(ctx context.Context, chapterID string) error
	Comments(ctx context.Context, chapterID string) error
	Comment(ctx context.Context, chapterID, text string) error
	Rate(ctx context.Context, comicID, score string) error
	Bookmarks(ctx context.Context, filter string) error
	Bookmark(ctx context.Context, comicID string) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
	Reset(ctx context.Context) error
}

const (
	guestHelp = "Available commands: register, login, forgot, comics, top, search [query], genres [genreId...], " +
		"comic <id>, chapters <comicId>, read <chapterId>, reset, exit"
	readerHelp = "Available commands: comics, top, search [query], genres [genreId...], comic <id>, " +
		"chapters <comicId>, read <chapterId>, comments <chapterId>, comment <chapterId> <text>, " +
		"rate <comicId> <score>, bookmarks [filter], bookmark <comicId>, whoami, profile, passwd, logout, reset, exit"
)

// runREPL starts a read–eval–print loop for the comic reader.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a. The loop exits on EOF or when the user types
// "exit" or "quit". The same reader is shared with the prompts issued by
// the handlers.
//
// Errors returned by handlers are reported on one line and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cr> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(readerHelp)
			} else {
				printlnFn(guestHelp)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "forgot":
			cmdErr = a.Forgot(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "comics":
			cmdErr = a.Comics(ctx)

		case "top":
			cmdErr = a.Top(ctx)

		case "search":
			cmdErr = a.Search(ctx, strings.Join(args, " "))

		case "genres":
			cmdErr = a.Genres(ctx, args)

		case "comic":
			if usage(args, 1, "comic <id>") {
				cmdErr = a.Comic(ctx, args[0])
			}

		case "chapters":
			if usage(args, 1, "chapters <comicId>") {
				cmdErr = a.Chapters(ctx, args[0])
			}

		case "read":
			if usage(args, 1, "read <chapterId>") {
				cmdErr = a.Read(ctx, args[0])
			}

		case "comments":
			if usage(args, 1, "comments <chapterId>") {
				cmdErr = a.Comments(ctx, args[0])
			}

		case "comment":
			if usage(args, 2, "comment <chapterId> <text>") {
				cmdErr = a.Comment(ctx, args[0], strings.Join(args[1:], " "))
			}

		case "rate":
			if usage(args, 2, "rate <comicId> <score>") {
				cmdErr = a.Rate(ctx, args[0], args[1])
			}

		case "bookmarks":
			cmdErr = a.Bookmarks(ctx, strings.Join(args, " "))

		case "bookmark":
			if usage(args, 1, "bookmark <comicId>") {
				cmdErr = a.Bookmark(ctx, args[0])
			}

		case "profile":
			cmdErr = a.Profile(ctx)

		case "passwd":
			cmdErr = a.Passwd(ctx)

		case "reset":
			cmdErr = a.Reset(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}
	}
}

// usage reports whether args has at least n entries and prints the usage
// line otherwise.
func usage(args []string, n int, form string) bool {
	if len(args) < n {
		printlnFn("Usage:", form)
		return false
	}
	return true
}

// describeError turns a handler error into the line shown to the reader.
func describeError(err error) string {
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		return services.ErrSessionExpired.Error()
	case errors.Is(err, common.ErrAuthRequired):
		return "Please log in first."
	case errors.Is(err, client.ErrUnavailable):
		return "The comic server is unavailable, please try again later."
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "Error: " + apiErr.Message
	}
	return "Error: " + err.Error()
}
