package handler // handler defines http handlers

import (
    "errors"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/ryofujimura/Oshiri-sub000/internal/model"
    "github.com/ryofujimura/Oshiri-sub000/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims arrive as float64, so several shapes are
// accepted.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim or "" when absent.
func getRole(c echo.Context) string {
    if r, ok := c.Get("role").(string); ok {
        return r
    }
    return ""
}

// getViewer builds the visibility-projection viewer for the request.
// Missing or invalid identity yields the anonymous viewer, so read
// paths fail closed to public data instead of erroring.
func getViewer(c echo.Context) model.Viewer {
    uid, err := getUserID(c)
    if err != nil {
        return model.Anonymous
    }
    return model.Viewer{UserID: uid, IsAdmin: getRole(c) == model.RoleAdmin}
}

// getPrincipal builds the acting principal for mutations. The error
// case means no authenticated identity is present.
func getPrincipal(c echo.Context) (service.Principal, error) {
    uid, err := getUserID(c)
    if err != nil {
        return service.Principal{}, err
    }
    return service.Principal{UserID: uid, Role: getRole(c)}, nil
}
