package server

import (
	"quorum/internal/models"
	"quorum/internal/wizard"

	"github.com/gofiber/fiber/v2"
)

// StartWizard handles POST /api/questions/wizard
func (s *Server) StartWizard(c *fiber.Ctx) error {
	view, err := s.wizardService.Start(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// GetWizard handles GET /api/questions/wizard/:wizardId
func (s *Server) GetWizard(c *fiber.Ctx) error {
	view, err := s.wizardService.Get(c.UserContext(), currentUserID(c), c.Params("wizardId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// SubmitWizardStep handles POST /api/questions/wizard/:wizardId/steps/:step.
// The last step creates the question and answers 201.
func (s *Server) SubmitWizardStep(c *fiber.Ctx) error {
	step, err := c.ParamsInt("step")
	if err != nil || step < wizard.StepTitle || step > wizard.LastStep {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid step"))
	}

	var req wizard.StepInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.wizardService.Submit(c.UserContext(), currentUserID(c), c.Params("wizardId"), step, req)
	if err != nil {
		return respondServiceError(c, err)
	}

	if res.Question != nil {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"question": res.Question,
			"redirect": models.QuestionListPath,
		})
	}
	return c.JSON(fiber.Map{"wizard": res.Wizard})
}

// AbandonWizard handles DELETE /api/questions/wizard/:wizardId
func (s *Server) AbandonWizard(c *fiber.Ctx) error {
	if err := s.wizardService.Abandon(c.UserContext(), currentUserID(c), c.Params("wizardId")); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
