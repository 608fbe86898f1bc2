package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/client/services"
	"github.com/dmitrijs2005/comicreader/internal/common"
)

func (a *App) Comics(ctx context.Context) error {
	list, err := a.catalog.Comics(ctx)
	if err != nil {
		return err
	}
	printComics(a.out, list)
	return nil
}

// Search lists comics matching query. Without a query on a terminal it opens
// the interactive search box.
func (a *App) Search(ctx context.Context, query string) error {
	if query == "" && a.interactive {
		return a.searchInteractive(ctx)
	}
	list, err := a.catalog.Search(ctx, query)
	if err != nil {
		return err
	}
	printComics(a.out, list)
	return nil
}

// Genres lists all genres, or the comics of the given genres.
// Top lists the most viewed comics.
func (a *App) Top(ctx context.Context) error {
	list, err := a.catalog.MostViewed(ctx)
	if err != nil {
		return err
	}
	printComics(a.out, list)
	return nil
}

func (a *App) Genres(ctx context.Context, genreIDs []string) error {
	if len(genreIDs) > 0 {
		var (
			list []models.Comic
			err  error
		)
		if len(genreIDs) == 1 {
			list, err = a.catalog.ComicsByGenre(ctx, genreIDs[0])
		} else {
			list, err = a.catalog.ComicsByGenres(ctx, genreIDs)
		}
		if err != nil {
			return err
		}
		printComics(a.out, list)
		return nil
	}

	genres, err := a.catalog.Genres(ctx)
	if err != nil {
		return err
	}
	if len(genres) == 0 {
		fmt.Fprintln(a.out, "No genres found.")
		return nil
	}
	for _, g := range genres {
		fmt.Fprintf(a.out, "  [%s] %s\n", g.ID, g.Name)
	}
	return nil
}

func (a *App) Comic(ctx context.Context, comicID string) error {
	c, err := a.catalog.Comic(ctx, comicID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s [%s]\n", c.Name, c.ID)
	if c.Author != "" {
		fmt.Fprintf(a.out, "Author:  %s\n", c.Author)
	}
	if len(c.Genres) > 0 {
		names := make([]string, 0, len(c.Genres))
		for _, g := range c.Genres {
			names = append(names, g.Name)
		}
		fmt.Fprintf(a.out, "Genres:  %s\n", strings.Join(names, ", "))
	}
	status := "ongoing"
	if c.Finished {
		status = "finished"
	}
	fmt.Fprintf(a.out, "Status:  %s, %d views\n", status, c.View)
	if a.isLoggedIn() && containsBookmark(a.bookmarks.List(), c.ID.String()) {
		fmt.Fprintln(a.out, "In your bookmarks.")
	}
	if c.Description != "" {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, c.Description)
	}
	if len(c.Chapters) > 0 {
		fmt.Fprintln(a.out)
		printChapters(a.out, c.Chapters)
	}
	return nil
}

func (a *App) Chapters(ctx context.Context, comicID string) error {
	list, err := a.catalog.Chapters(ctx, comicID)
	if err != nil {
		return err
	}
	printChapters(a.out, list)
	return nil
}

// Read lists the page images of a chapter.
func (a *App) Read(ctx context.Context, chapterID string) error {
	ch, err := a.catalog.Chapter(ctx, chapterID)
	if err != nil {
		return err
	}
	if ch.ChapterNumber > 0 || ch.Title != "" {
		fmt.Fprintf(a.out, "Chapter %d: %s\n", ch.ChapterNumber, ch.Title)
	}
	if len(ch.ImageURLs) == 0 {
		fmt.Fprintln(a.out, "This chapter has no pages yet.")
		return nil
	}
	for i, u := range ch.ImageURLs {
		fmt.Fprintf(a.out, "  page %d: %s\n", i+1, u)
	}
	return nil
}

func (a *App) Comments(ctx context.Context, chapterID string) error {
	list, err := a.community.Comments(ctx, chapterID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No comments yet.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "  %s (%s): %s\n", c.FullName, c.CreatedAt, c.Content)
	}
	return nil
}

func (a *App) Comment(ctx context.Context, chapterID, text string) error {
	if err := a.community.Comment(ctx, chapterID, text); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Comment posted.")
	return nil
}

func (a *App) Rate(ctx context.Context, comicID, score string) error {
	n, err := strconv.Atoi(score)
	if err != nil {
		return fmt.Errorf("%w: score must be a number from %d to %d",
			common.ErrInvalidArgument, services.MinScore, services.MaxScore)
	}
	if err := a.community.Rate(ctx, comicID, n); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Thanks for rating!")
	return nil
}

// Bookmarks lists the reader's bookmarks whose name contains filter. Without
// a filter on a terminal it opens the interactive filter box.
func (a *App) Bookmarks(ctx context.Context, filter string) error {
	if !a.isLoggedIn() {
		return common.ErrAuthRequired
	}
	if filter == "" && a.interactive {
		return a.filterBookmarksInteractive(ctx)
	}
	printBookmarks(a.out, a.bookmarks.Filter(filter))
	return nil
}

// Bookmark toggles comicID in the bookmark set.
func (a *App) Bookmark(ctx context.Context, comicID string) error {
	bookmarked, err := a.bookmarks.Toggle(ctx, comicID)
	if err != nil {
		return err
	}
	if bookmarked {
		fmt.Fprintln(a.out, "Bookmarked.")
	} else {
		fmt.Fprintln(a.out, "Removed from bookmarks.")
	}
	return nil
}

func printComics(w io.Writer, list []models.Comic) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No comics found.")
		return
	}
	for _, c := range list {
		fmt.Fprintf(w, "  %s\n", comicLine(c))
	}
}

func comicLine(c models.Comic) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", c.ID, c.Name)
	if c.Author != "" {
		fmt.Fprintf(&b, " by %s", c.Author)
	}
	if c.LastChapter != nil {
		fmt.Fprintf(&b, " (ch. %d)", c.LastChapter.ChapterNumber)
	}
	return b.String()
}

func printChapters(w io.Writer, list []models.ChapterRef) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No chapters yet.")
		return
	}
	for _, ch := range list {
		line := fmt.Sprintf("  Chapter %d", ch.ChapterNumber)
		if ch.Title != "" {
			line += ": " + ch.Title
		}
		if ch.ID != "" {
			line += fmt.Sprintf(" [%s]", ch.ID)
		}
		fmt.Fprintln(w, line)
	}
}

func printBookmarks(w io.Writer, list []profile.Bookmark) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No bookmarks.")
		return
	}
	for _, b := range list {
		fmt.Fprintf(w, "  %s\n", bookmarkLine(b))
	}
}

func bookmarkLine(b profile.Bookmark) string {
	line := fmt.Sprintf("[%s] %s", b.ComicID, b.Name)
	if b.LastChapter != "" {
		line += " (ch. " + b.LastChapter + ")"
	}
	return line
}

func containsBookmark(list []profile.Bookmark, comicID string) bool {
	for _, b := range list {
		if b.ComicID == comicID {
			return true
		}
	}
	return false
}
