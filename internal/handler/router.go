package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inkmark/inkmark/internal/middleware"
)

type RouterDeps struct {
	Auth       *AuthHandler
	Documents  *DocumentHandler
	Signatures *SignatureHandler
	Shares     *ShareHandler
	Export     *ExportHandler
	Audit      *AuditHandler
	Public     *PublicHandler
	JWTSecret  []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/register", deps.Auth.Register)
	api.POST("/auth/login", deps.Auth.Login)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/auth/me", deps.Auth.Me)
	authGroup.POST("/documents", deps.Documents.Upload)
	authGroup.GET("/documents", deps.Documents.List)
	authGroup.GET("/documents/shared", deps.Documents.ListShared)
	authGroup.GET("/documents/:id", deps.Documents.Get)
	authGroup.GET("/documents/:id/file", deps.Documents.File)
	authGroup.DELETE("/documents/:id", deps.Documents.Delete)

	authGroup.GET("/documents/:id/signatures", deps.Signatures.ListByDocument)
	authGroup.POST("/signatures", deps.Signatures.Create)
	authGroup.PUT("/signatures/:id", deps.Signatures.Update)
	authGroup.PUT("/signatures/:id/status", deps.Signatures.SetStatus)
	authGroup.DELETE("/signatures/:id", deps.Signatures.Delete)

	authGroup.POST("/documents/:id/share", deps.Shares.Grant)
	authGroup.POST("/documents/:id/share-token", deps.Shares.MintToken)
	authGroup.DELETE("/documents/:id/share-token", deps.Shares.RevokeToken)

	authGroup.GET("/documents/:id/export", deps.Export.Download)
	authGroup.GET("/documents/:id/audit", deps.Audit.ListByDocument)

	api.GET("/public/sign/:token", deps.Public.Get)
	api.GET("/public/sign/:token/file", deps.Public.File)
	api.GET("/public/sign/:token/export", deps.Public.Download)
	api.POST("/public/sign/:token/signatures", deps.Public.CreateSignature)
	api.PUT("/public/sign/:token/signatures/:sid", deps.Public.UpdateSignature)
	api.DELETE("/public/sign/:token/signatures/:sid", deps.Public.DeleteSignature)
}
