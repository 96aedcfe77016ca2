package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/model"
)

var endpoints = []string{
	"/aptos/api/tokens",
	"/aptos/api/tokens/metadata/:address",
	"/aptos/api/pools",
	"/aptos/api/pools/:poolId",
	"/aptos/api/pools/pair?token1=&token2=&feeTier=",
}

func (s *Server) rootInfo(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":   message,
			"version":   Version,
			"network":   s.cfg.Network,
			"endpoints": endpoints,
		})
	}
}

func (s *Server) listTokens(c *gin.Context) {
	tokens, err := s.service.GetAllTokens(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to list tokens", err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (s *Server) getTokenMetadata(c *gin.Context) {
	address := c.Param("address")
	meta, err := s.service.GetTokenMetadata(c.Request.Context(), address)
	if err != nil {
		s.fail(c, "failed to get token metadata", err)
		return
	}
	if meta == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "token metadata not found"})
		return
	}
	c.JSON(http.StatusOK, meta)
}

func (s *Server) listPools(c *gin.Context) {
	pools, err := s.service.ListPools(c.Request.Context())
	if err != nil {
		s.fail(c, "failed to list pools", err)
		return
	}
	c.JSON(http.StatusOK, pools)
}

func (s *Server) getPool(c *gin.Context) {
	poolID := c.Param("poolId")
	pool, err := s.service.GetPool(c.Request.Context(), poolID)
	if err != nil {
		s.fail(c, "failed to get pool", err)
		return
	}
	if pool == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pool not found"})
		return
	}
	c.JSON(http.StatusOK, pool)
}

func (s *Server) getPoolByPair(c *gin.Context) {
	token1 := strings.TrimSpace(c.Query("token1"))
	token2 := strings.TrimSpace(c.Query("token2"))
	feeTierText := strings.TrimSpace(c.Query("feeTier"))
	if token1 == "" || token2 == "" || feeTierText == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required parameters: token1, token2, feeTier"})
		return
	}

	feeTier, err := strconv.ParseFloat(feeTierText, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feeTier must be a number"})
		return
	}

	pool, err := s.service.GetPoolByPair(c.Request.Context(), token1, token2, feeTier)
	if err != nil {
		s.fail(c, "failed to get pool", err)
		return
	}
	if pool == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no pool matches the token pair and fee tier"})
		return
	}
	c.JSON(http.StatusOK, pool)
}

// fail maps service errors to status codes.
func (s *Server) fail(c *gin.Context, message string, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
