package controller

import (
	"semantic-docstore-be/internal/dto"
	"semantic-docstore-be/internal/pkg/serverutils"
	"semantic-docstore-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IClusterController interface {
	RegisterRoutes(r fiber.Router)
	Compute(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
}

type clusterController struct {
	clusterService service.IClusterService
}

func NewClusterController(clusterService service.IClusterService) IClusterController {
	return &clusterController{
		clusterService: clusterService,
	}
}

func (c *clusterController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/cluster/v1")
	h.Get("", c.Get)
	h.Post("", c.Compute)
}

// Compute runs a fresh clustering with the requested parameters.
func (c *clusterController) Compute(ctx *fiber.Ctx) error {
	var req dto.ClusterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.clusterService.Cluster(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compute clusters", res))
}

// Get serves the memoized report, computing with defaults when it is stale.
func (c *clusterController) Get(ctx *fiber.Ctx) error {
	res, err := c.clusterService.GetOrCompute(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get clusters", res))
}
