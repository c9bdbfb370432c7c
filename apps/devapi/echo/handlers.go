package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/resource"
)

// envelopeKind selects how a collection response is wrapped; the production
// backends never agreed on one shape, so neither do we.
type envelopeKind int

const (
	envelopeBare envelopeKind = iota
	envelopeData
	envelopeItems
	envelopeSuccessData
)

var envelopeKinds = []envelopeKind{envelopeBare, envelopeData, envelopeItems, envelopeSuccessData}

type resourceAPI struct {
	repo       resource.Repository
	schema     resource.Schema
	collection string
	envelope   envelopeKind
}

func (api *resourceAPI) query(ctx echo.Context) error {
	items, err := api.repo.QueryAll(ctx.Request().Context(), api.collection)
	if err != nil {
		return err
	}
	items = api.applyQueryParams(ctx, items)
	return ctx.JSON(http.StatusOK, api.wrap(items))
}

func (api *resourceAPI) create(ctx echo.Context) error {
	fields, err := api.bind(ctx)
	if err != nil {
		return err
	}
	item, err := api.repo.Create(ctx.Request().Context(), api.collection, fields)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"data": item.Fields})
}

func (api *resourceAPI) update(ctx echo.Context) error {
	fields, err := api.bind(ctx)
	if err != nil {
		return err
	}
	item, err := api.repo.Update(ctx.Request().Context(), api.collection, ctx.Param("id"), fields)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"data": item.Fields})
}

func (api *resourceAPI) destroy(ctx echo.Context) error {
	if err := api.repo.Delete(ctx.Request().Context(), api.collection, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// bind decodes the JSON body and enforces the schema's required fields;
// clients validate before submitting, but the backend never trusts that.
func (api *resourceAPI) bind(ctx echo.Context) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	if err := ctx.Bind(&fields); err != nil {
		return nil, err
	}
	for _, f := range api.schema.Fields {
		if !f.Required {
			continue
		}
		v, ok := fields[f.Name]
		if !ok || v == nil {
			return nil, requiredErr(f.Name)
		}
		if s, isStr := v.(string); isStr && core.CleanString(s) == "" {
			return nil, requiredErr(f.Name)
		}
	}
	return fields, nil
}

func requiredErr(field string) error {
	return core.NewValidationError(nil, core.FieldError{Field: field, Error: "this field is required"})
}

// applyQueryParams filters the collection by the schema's supported query
// parameters; "from"/"to" bound the record's date field, anything else is an
// exact (reference-resolving) match.
func (api *resourceAPI) applyQueryParams(ctx echo.Context, items []resource.Resource) []resource.Resource {
	res := items
	for _, p := range api.schema.QueryParams {
		want := ctx.QueryParam(p)
		if want == "" {
			continue
		}
		filtered := make([]resource.Resource, 0, len(res))
		for _, item := range res {
			switch p {
			case "from":
				if item.Str("date") >= want { // ISO dates sort lexically
					filtered = append(filtered, item)
				}
			case "to":
				if item.Str("date") <= want {
					filtered = append(filtered, item)
				}
			default:
				if item.RefID(p) == want {
					filtered = append(filtered, item)
				}
			}
		}
		res = filtered
	}
	return res
}

func (api *resourceAPI) wrap(items []resource.Resource) interface{} {
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Fields)
	}
	switch api.envelope {
	case envelopeData:
		return echo.Map{"data": rows}
	case envelopeItems:
		return echo.Map{"items": rows}
	case envelopeSuccessData:
		return echo.Map{"success": true, "data": rows}
	default:
		return rows
	}
}
