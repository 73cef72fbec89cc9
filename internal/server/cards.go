package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/deck"
	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/store"
)

// reviewMode tags review events recorded through the API.
const reviewMode = "api"

var success = map[string]bool{"success": true}

func (s *Server) cards(c echo.Context) store.CardRepo {
	return s.store.CardRepo(userID(c))
}

func (s *Server) loadCards(c echo.Context) ([]card.Card, error) {
	cards, err := s.cards(c).Load(c.Request().Context())
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []card.Card{}
	}
	return cards, nil
}

func (s *Server) listCards(c echo.Context) error {
	cards, err := s.loadCards(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (s *Server) createCard(c echo.Context) error {
	var d card.Draft
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := s.cards(c).Create(c.Request().Context(), d, s.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// updateCard is a raw progress override for sync clients. The stored fields
// are replaced with the body as sent, and nextReview is not recomputed from
// the level.
func (s *Server) updateCard(c echo.Context) error {
	ctx := c.Request().Context()
	repo := s.cards(c)
	id := card.ID(c.Param("id"))

	current, err := repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}
	if err != nil {
		return err
	}

	// Fields missing from the body keep their stored value.
	p := current.Progress()
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := p.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = repo.Update(ctx, id, p)
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success)
}

func (s *Server) deleteCard(c echo.Context) error {
	if err := s.cards(c).Delete(c.Request().Context(), card.ID(c.Param("id"))); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success)
}

func (s *Server) clearCards(c echo.Context) error {
	if err := s.cards(c).Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success)
}

type answerRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

func (s *Server) answerCard(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "correct is required")
	}

	ctx := c.Request().Context()
	repo := s.cards(c)
	cd, err := repo.Get(ctx, card.ID(c.Param("id")))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "card not found")
	}
	if err != nil {
		return err
	}

	before := cd.Level
	spacedrep.ApplyAnswer(&cd, *req.Correct, s.now(), nil)
	if err := repo.Update(ctx, cd.ID, cd.Progress()); err != nil {
		return err
	}

	err = s.store.EventRepo().AppendReview(ctx, store.ReviewEventData{
		UserID:      userID(c),
		CardID:      cd.ID,
		Mode:        reviewMode,
		Correct:     *req.Correct,
		LevelBefore: before,
		LevelAfter:  cd.Level,
	})
	if err != nil {
		s.log.Warn("record review", "card_id", cd.ID, "error", err)
	}
	return c.JSON(http.StatusOK, cd)
}

func (s *Server) dueCards(c echo.Context) error {
	cards, err := s.loadCards(c)
	if err != nil {
		return err
	}
	due := []card.Card{}
	for cd := range spacedrep.DueCards(cards, s.now()) {
		due = append(due, *cd)
	}
	return c.JSON(http.StatusOK, due)
}

func (s *Server) stats(c echo.Context) error {
	cards, err := s.loadCards(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, spacedrep.AggregateStats(cards, s.now()))
}

func (s *Server) importCards(c echo.Context) error {
	drafts, err := deck.Parse(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "read import body")
	}

	ctx := c.Request().Context()
	repo := s.cards(c)
	added, skipped := 0, 0
	for _, d := range drafts {
		d = d.Normalize()
		if d.Validate() != nil {
			skipped++
			continue
		}
		if _, err := repo.Create(ctx, d, s.now()); err != nil {
			return err
		}
		added++
	}
	return c.JSON(http.StatusOK, map[string]int{"added": added, "skipped": skipped})
}

func (s *Server) exportCards(c echo.Context) error {
	cards, err := s.loadCards(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := deck.Export(&buf, cards); err != nil {
		if errors.Is(err, deck.ErrComma) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="hanzi.txt"`)
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, buf.Bytes())
}
