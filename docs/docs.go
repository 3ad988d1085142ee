// Package docs регистрирует swagger-спецификацию API в swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/categories": {
            "get": {
                "tags": ["categories"], "summary": "Дерево категорий", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.CategoryResponse"}}}}
            }
        },
        "/categories/{id}": {
            "get": {
                "tags": ["categories"], "summary": "Категория с подкатегориями", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.CategoryResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "tags": ["products"], "summary": "Каталог товаров", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "category", "in": "query"},
                    {"type": "string", "name": "subcategory", "in": "query"},
                    {"type": "number", "name": "min_price", "in": "query"},
                    {"type": "number", "name": "max_price", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "string", "name": "sort", "in": "query", "enum": ["relevance", "price_asc", "price_desc", "name"]},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["products"], "summary": "Товар с ценой по действующей оферте", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.PricedProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/offers/active": {
            "get": {
                "tags": ["offers"], "summary": "Действующие акции", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/http.ActiveOfferResponse"}}}}
            }
        },
        "/contact": {
            "post": {
                "tags": ["contact"], "summary": "Форма обратной связи", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "message", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ContactRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ContactResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/admin/sessions": {
            "post": {
                "tags": ["auth"], "summary": "Вход администратора", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.SignInRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Выход",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/sessions/current": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Текущая сессия", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.SessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/admin/products": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Создание товара",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ProductRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ProductResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/admin/products/{id}": {
            "put": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Изменение товара",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.ProductRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProductResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Удаление товара",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/offers": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Список оферт для админки", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.OfferListResponse"}}}
            },
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Создание оферты",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "offer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.OfferRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.OfferResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/admin/offers/{id}": {
            "get": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Оферта", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.OfferResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Изменение оферты",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "offer", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.OfferRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.OfferResponse"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Удаление оферты",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/admin/offers/{id}/toggle": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Включение или выключение оферты", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.OfferResponse"}}}
            }
        },
        "/admin/images": {
            "post": {
                "security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Загрузка изображения товара",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ImageResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "http.ErrorResponse": {"type": "object", "properties": {"code": {"type": "integer"}, "message": {"type": "string"}}},
        "http.PaginationResponse": {"type": "object", "properties": {
            "page": {"type": "integer"}, "perPage": {"type": "integer"}, "total": {"type": "integer"}, "totalPages": {"type": "integer"}
        }},
        "http.SubcategoryResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "slug": {"type": "string"}}},
        "http.CategoryResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "slug": {"type": "string"}, "icon": {"type": "string"},
            "description": {"type": "string"}, "order": {"type": "integer"},
            "subcategories": {"type": "array", "items": {"$ref": "#/definitions/http.SubcategoryResponse"}}
        }},
        "http.ProductRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "number"},
            "categoryId": {"type": "string"}, "subcategoryId": {"type": "string"}, "imageUrl": {"type": "string"}, "stock": {"type": "integer"}
        }},
        "http.ProductResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "slug": {"type": "string"}, "description": {"type": "string"}, "price": {"type": "number"},
            "categoryId": {"type": "string"}, "subcategoryId": {"type": "string"}, "imageUrl": {"type": "string"}, "stock": {"type": "integer"},
            "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
        }},
        "http.PricingResponse": {"type": "object", "properties": {
            "originalPrice": {"type": "number"}, "finalPrice": {"type": "number"}, "savings": {"type": "number"},
            "discountPercent": {"type": "number"}, "hasOffer": {"type": "boolean"},
            "offer": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "kind": {"type": "string"}}},
            "formattedPrice": {"type": "string"}, "formattedOriginalPrice": {"type": "string"},
            "badge": {"type": "string"}, "savingsText": {"type": "string"}
        }},
        "http.PricedProductResponse": {"allOf": [
            {"$ref": "#/definitions/http.ProductResponse"},
            {"type": "object", "properties": {"pricing": {"$ref": "#/definitions/http.PricingResponse"}}}
        ]},
        "http.ProductListResponse": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"$ref": "#/definitions/http.PricedProductResponse"}},
            "pagination": {"$ref": "#/definitions/http.PaginationResponse"}
        }},
        "http.OfferRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "description": {"type": "string"},
            "kind": {"type": "string", "enum": ["product", "subcategory", "category"]},
            "productIds": {"type": "array", "items": {"type": "string"}}, "productId": {"type": "string"},
            "categoryId": {"type": "string"}, "subcategoryId": {"type": "string"}, "discountPercent": {"type": "number"},
            "startAt": {"type": "string"}, "endAt": {"type": "string"}, "enabled": {"type": "boolean"}
        }},
        "http.OfferResponse": {"type": "object", "properties": {
            "id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"}, "kind": {"type": "string"},
            "productIds": {"type": "array", "items": {"type": "string"}}, "categoryId": {"type": "string"}, "subcategoryId": {"type": "string"},
            "discountPercent": {"type": "number"}, "badge": {"type": "string"}, "startAt": {"type": "string"}, "endAt": {"type": "string"},
            "enabled": {"type": "boolean"}, "status": {"type": "string", "enum": ["active", "scheduled", "expired", "disabled"]},
            "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
        }},
        "http.OfferListResponse": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"$ref": "#/definitions/http.OfferResponse"}},
            "pagination": {"$ref": "#/definitions/http.PaginationResponse"}
        }},
        "http.ActiveOfferResponse": {"allOf": [
            {"$ref": "#/definitions/http.OfferResponse"},
            {"type": "object", "properties": {"products": {"type": "array", "items": {"$ref": "#/definitions/http.ProductResponse"}}}}
        ]},
        "http.ContactRequest": {"type": "object", "properties": {
            "name": {"type": "string"}, "email": {"type": "string"}, "phone": {"type": "string"}, "message": {"type": "string"}
        }},
        "http.ContactResponse": {"type": "object", "properties": {"id": {"type": "string"}, "createdAt": {"type": "string"}}},
        "http.SignInRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "http.SessionResponse": {"type": "object", "properties": {
            "token": {"type": "string"}, "email": {"type": "string"}, "expiresAt": {"type": "string"}
        }},
        "http.ImageResponse": {"type": "object", "properties": {"key": {"type": "string"}, "url": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Plastyfilm Store API",
	Description:      "Каталог, акции и админка магазина упаковочных материалов.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
