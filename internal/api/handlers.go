package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"

	"github.com/abhisek/prepcoach/internal/badges"
	"github.com/abhisek/prepcoach/internal/session"
)

func (s *Server) startSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	st, err := s.sessions.Start(c.Request.Context(), session.Params{
		UserName:      req.UserName,
		Role:          req.Role,
		Seniority:     req.Seniority,
		InterviewType: req.InterviewType,
		Count:         req.Count,
	})
	if errors.Is(err, session.ErrNoUser) {
		s.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to start session", err)
		return
	}

	s.mu.Lock()
	s.active[st.Session.ID] = &activeSession{state: st}
	s.mu.Unlock()

	resp, err := sessionResponse(st)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to build response", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) getSession(c *gin.Context) {
	_, a, ok := s.lookup(c)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	resp, err := sessionResponse(a.state)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to build response", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) submitAnswer(c *gin.Context) {
	_, a, ok := s.lookup(c)
	if !ok {
		return
	}
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	a.mu.Lock()
	res, err := s.sessions.Submit(c.Request.Context(), a.state, req.QuestionID, req.Answer)
	a.mu.Unlock()
	switch {
	case errors.Is(err, session.ErrUnknownQuestion):
		s.fail(c, http.StatusBadRequest, "unknown question", err)
		return
	case errors.Is(err, session.ErrSessionComplete):
		s.fail(c, http.StatusConflict, "session is complete", err)
		return
	case err != nil:
		s.fail(c, http.StatusInternalServerError, "failed to record answer", err)
		return
	}

	resp := AnswerResponse{
		ResponseID: res.ResponseID,
		QuestionID: res.Question.ID,
		Averages:   res.Averages,
		Answered:   res.Answered,
		Total:      res.Total,
	}
	if err := copier.Copy(&resp.Evaluation, &res.Evaluation); err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to build response", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) finishSession(c *gin.Context) {
	id, a, ok := s.lookup(c)
	if !ok {
		return
	}

	a.mu.Lock()
	sum, err := s.sessions.Finish(c.Request.Context(), a.state)
	a.mu.Unlock()
	if errors.Is(err, session.ErrSessionComplete) {
		s.fail(c, http.StatusConflict, "session is complete", err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to finish session", err)
		return
	}

	s.mu.Lock()
	delete(s.active, id)
	s.mu.Unlock()

	var resp FinishResponse
	if err := copier.Copy(&resp, sum); err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to build response", err)
		return
	}
	resp.DurationMs = sum.Duration.Milliseconds()
	resp.Badges = make([]BadgeDTO, 0, len(sum.NewBadges))
	for _, b := range sum.NewBadges {
		resp.Badges = append(resp.Badges, badgeDTO(b))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) userStats(c *gin.Context) {
	st, err := s.sessions.UserStats(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to load stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) userAchievements(c *gin.Context) {
	recs, err := s.sessions.Achievements(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to load achievements", err)
		return
	}
	out := make([]BadgeDTO, 0, len(recs))
	for _, r := range recs {
		d := badgeDTO(badges.BadgeID(r.BadgeID))
		earned := r.EarnedAt
		d.EarnedAt = &earned
		out = append(out, d)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) userTips(c *gin.Context) {
	tips, err := s.sessions.Tips(c.Request.Context(), c.Param("name"), c.Query("role"))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "failed to load tips", err)
		return
	}
	c.JSON(http.StatusOK, tips)
}

func sessionResponse(st *session.State) (SessionResponse, error) {
	resp := SessionResponse{
		SessionID:     st.Session.ID,
		UserName:      st.Session.UserName,
		Role:          st.Session.Role,
		InterviewType: st.Session.InterviewType,
		Answered:      st.Answered(),
	}
	if err := copier.Copy(&resp.Questions, &st.Session.Questions); err != nil {
		return resp, err
	}
	if next := st.Next(); next != nil {
		resp.NextQuestionID = next.ID
	}
	return resp, nil
}

func badgeDTO(id badges.BadgeID) BadgeDTO {
	return BadgeDTO{
		ID:          string(id),
		Name:        id.DisplayName(),
		Icon:        id.Icon(),
		Description: id.Description(),
	}
}
