package middleware

import (
	"github.com/aurum-labs/jewel-studio/common/helper"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// DesignSessionKey identifies the browser whose designs are listed by /api/designs.
const DesignSessionKey = "design_session"

func DesignSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(DesignSessionKey).(string)
		if id == "" {
			id = helper.GetUUID()
			session.Set(DesignSessionKey, id)
			_ = session.Save()
		}
		c.Set(DesignSessionKey, id)
		c.Next()
	}
}
