package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the FAQ service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>faqhub — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "faqhub", "version": "v1.0.0" },
  "components": {
    "parameters": {
      "lang": { "name": "lang", "in": "query", "description": "en, hi, bn, ta, te, mr, fr, es, ar or ja (alias: lng). Unknown values fall back to en.", "schema": { "type": "string" } }
    },
    "schemas": {
      "FAQInput": { "type": "object", "required": ["question", "answer"], "properties": { "question": { "type": "string" }, "answer": { "type": "string" } } },
      "FAQView": { "type": "object", "properties": { "id": { "type": "string" }, "question": { "type": "string" }, "answer": { "type": "string" } } }
    }
  },
  "paths": {
    "/faq/add": {
      "post": {
        "summary": "Create a FAQ and translate it",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/FAQInput" } } } },
        "responses": { "201": { "description": "created" }, "400": { "description": "question or answer missing" } }
      }
    },
    "/faq/all": {
      "get": {
        "summary": "List FAQs in one language",
        "parameters": [ { "$ref": "#/components/parameters/lang" } ],
        "responses": { "200": { "description": "projected FAQs", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/FAQView" } } } } } }
      }
    },
    "/faq/export": {
      "get": { "summary": "Snapshot the projection for a language to object storage", "parameters": [ { "$ref": "#/components/parameters/lang" } ], "responses": { "200": { "description": "object key and presigned URL" }, "503": { "description": "object storage not configured" } } }
    },
    "/faq/{id}": {
      "get": { "summary": "Get one FAQ", "parameters": [ { "$ref": "#/components/parameters/lang" } ], "responses": { "200": { "description": "projected FAQ" }, "404": { "description": "not found" } } },
      "put": { "summary": "Update question and/or answer", "responses": { "200": { "description": "updated" }, "404": { "description": "not found" } } },
      "delete": { "summary": "Delete a FAQ", "responses": { "200": { "description": "deleted" }, "404": { "description": "not found" } } }
    },
    "/admin/add": { "post": { "summary": "Create an admin", "responses": { "201": { "description": "created" }, "409": { "description": "duplicate username" } } } },
    "/admin/login": { "post": { "summary": "Check password and mail a one-time passcode", "responses": { "200": { "description": "passcode sent" }, "401": { "description": "invalid credentials" } } } },
    "/admin/verify": { "post": { "summary": "Exchange the passcode for an access token", "responses": { "200": { "description": "access token" }, "401": { "description": "invalid or expired passcode" } } } },
    "/admin/logout": { "post": { "summary": "Revoke the current access token", "responses": { "200": { "description": "logged out" } } } },
    "/admin/me": { "get": { "summary": "Current admin", "responses": { "200": { "description": "admin" }, "401": { "description": "unauthorized" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
