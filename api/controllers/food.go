package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiffinbox/backend/api/middleware"
	"github.com/tiffinbox/backend/api/responses"
	"github.com/tiffinbox/backend/api/validators"
	"github.com/tiffinbox/backend/internal/catalog"
	"github.com/tiffinbox/backend/pkg/db/models"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
	"github.com/tiffinbox/backend/pkg/storage/local"
	"github.com/tiffinbox/backend/pkg/types"
)

// ListFood returns a catalog page, newest first.
func ListFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// GetFood returns a single catalog item.
func GetFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// CreateFood accepts a multipart form with the item fields plus up to
// maxImages image files. Addon lists and nutrition ride as JSON strings.
func CreateFood(svc catalog.Service, store *local.Store, maxImages int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input := catalog.CreateItemInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
		}

		price, err := requireDecimalField(r, "price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Price = price

		if input.DiscountPercent, err = optionalIntField(r, "discount"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.StockQty, err = optionalIntField(r, "stockQty"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if input.Dips, err = optionalAddonsField(r, "dips"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Beverages, err = optionalAddonsField(r, "beverages"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Drinks, err = optionalAddonsField(r, "drinks"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.Nutrition, err = optionalNutritionField(r, "nutrition"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		images, err := saveFormImages(store, r, "images", maxImages)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Images = images

		item, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateFoodRequest struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Price       *decimal.Decimal    `json:"price,omitempty"`
	Discount    *int                `json:"discount,omitempty"`
	StockQty    *int                `json:"stockQty,omitempty"`
	Images      []string            `json:"images,omitempty"`
	Dips        *types.AddonOptions `json:"dips,omitempty"`
	Beverages   *types.AddonOptions `json:"beverages,omitempty"`
	Drinks      *types.AddonOptions `json:"drinks,omitempty"`
	Nutrition   *types.Nutrition    `json:"nutrition,omitempty"`
}

// UpdateFood applies a partial update.
func UpdateFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateFoodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, catalog.UpdateItemInput{
			Title:           payload.Title,
			Description:     payload.Description,
			Price:           payload.Price,
			DiscountPercent: payload.Discount,
			StockQty:        payload.StockQty,
			Images:          payload.Images,
			Dips:            payload.Dips,
			Beverages:       payload.Beverages,
			Drinks:          payload.Drinks,
			Nutrition:       payload.Nutrition,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

type stockAdjustRequest struct {
	Qty int `json:"qty" validate:"omitempty,min=1"`
}

// StockInFood increments stock; qty defaults to one.
func StockInFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return stockAdjust(svc, logg, svc.StockIn)
}

// StockOutFood decrements stock, flooring at zero.
func StockOutFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return stockAdjust(svc, logg, svc.StockOut)
}

func stockAdjust(svc catalog.Service, logg *logger.Logger, adjust func(ctx context.Context, id uuid.UUID, qty int) (*models.FoodItem, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockAdjustRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		item, err := adjust(r.Context(), id, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// DeleteFood removes the item.
func DeleteFood(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "foodId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "Deleted")
	}
}

// saveFormImages persists the uploaded files and returns their public paths.
func saveFormImages(store *local.Store, r *http.Request, field string, maxImages int) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if maxImages > 0 && len(files) > maxImages {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"at most "+strconv.Itoa(maxImages)+" images allowed")
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable image upload")
		}
		path, err := store.Save(header.Filename, f)
		f.Close()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store image upload")
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func requireDecimalField(r *http.Request, name string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be numeric")
	}
	return value, nil
}

func optionalIntField(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be numeric")
	}
	return value, nil
}

func optionalAddonsField(r *http.Request, name string) (types.AddonOptions, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	var options types.AddonOptions
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be a JSON array")
	}
	return options, nil
}

func optionalNutritionField(r *http.Request, name string) (*types.Nutrition, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, nil
	}
	var nutrition types.Nutrition
	if err := json.Unmarshal([]byte(raw), &nutrition); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, name+" must be a JSON object")
	}
	return &nutrition, nil
}
