package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"starterapi/internal/model"
	"starterapi/internal/service"
)

// ListItems returns a page of items.
//
// @Summary  List items
// @Tags     items
// @Produce  json
// @Param    limit   query  int  false  "page size (1-1000)"  default(100)
// @Param    offset  query  int  false  "items to skip"       default(0)
// @Success  200  {object}  service.ItemListResult
// @Failure  400  {object}  errorPayload
// @Failure  422  {object}  errorPayload
// @Router   /items [get]
func ListItems(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultListLimit)))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			if ok, werr := writeValidationError(c, err); ok {
				return werr
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// CreateItem stores a new item from a JSON body.
//
// @Summary  Create an item
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    item  body  model.ItemCreate  true  "item to create"
// @Success  201  {object}  model.Item
// @Failure  400  {object}  errorPayload
// @Failure  422  {object}  errorPayload
// @Router   /items [post]
func CreateItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in model.ItemCreate
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}

		item, err := svc.Create(c.UserContext(), in)
		if err != nil {
			if ok, werr := writeValidationError(c, err); ok {
				return werr
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// GetItem returns one item.
//
// @Summary  Get an item
// @Tags     items
// @Produce  json
// @Param    id  path  string  true  "item id (uuid)"
// @Success  200  {object}  model.Item
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Router   /items/{id} [get]
func GetItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		item, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeItemError(c, err)
		}
		return c.JSON(item)
	}
}

// UpdateItem applies a partial update.
//
// @Summary  Update an item
// @Tags     items
// @Accept   json
// @Produce  json
// @Param    id    path  string            true  "item id (uuid)"
// @Param    item  body  model.ItemUpdate  true  "fields to change"
// @Success  200  {object}  model.Item
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Failure  422  {object}  errorPayload
// @Router   /items/{id} [put]
func UpdateItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var in model.ItemUpdate
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON object")
		}

		item, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeItemError(c, err)
		}
		return c.JSON(item)
	}
}

// DeleteItem removes an item.
//
// @Summary  Delete an item
// @Tags     items
// @Param    id  path  string  true  "item id (uuid)"
// @Success  204
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Router   /items/{id} [delete]
func DeleteItem(svc service.ItemService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeItemError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// writeItemError translates service errors for single-item routes.
func writeItemError(c *fiber.Ctx, err error) error {
	if ok, werr := writeValidationError(c, err); ok {
		return werr
	}
	if errors.Is(err, service.ErrNotFound) {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "item not found")
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
