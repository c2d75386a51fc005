package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foliosite/folio/internal/cloudinary"
	"github.com/foliosite/folio/internal/models"
	"github.com/foliosite/folio/internal/pagination"
)

// imageFolder is where project images live on the image host.
const imageFolder = "projects"

type createProjectInput struct {
	Name        string  `json:"name" binding:"required,min=1"`
	Description string  `json:"description" binding:"required,min=1"`
	Image       string  `json:"image" binding:"required,url"`
	WebsiteLink *string `json:"websiteLink" binding:"omitempty,url"`
	GithubLink  *string `json:"githubLink" binding:"omitempty,url"`
	YoutubeLink *string `json:"youtubeLink" binding:"omitempty,url"`
}

type deleteProjectInput struct {
	ImageURL string `json:"imageUrl" binding:"required,url"`
}

func (e *Env) ListProjects(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	page, err := pagination.List[models.Project](e.DB.Model(&models.Project{}), query.params(defaultListLimit, true))
	if err != nil {
		log.Printf("Error listing projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (e *Env) CreateProject(c *gin.Context) {
	var input createProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		WebsiteLink: input.WebsiteLink,
		GithubLink:  input.GithubLink,
		YoutubeLink: input.YoutubeLink,
		IsPublished: true,
	}
	if err := e.DB.Create(&project).Error; err != nil {
		log.Printf("Error creating project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (e *Env) UpdateProject(c *gin.Context) {
	var input createProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var project models.Project
	if err := e.DB.First(&project, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Error fetching project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	if err := e.DB.Model(&project).Updates(map[string]interface{}{
		"name":         input.Name,
		"description":  input.Description,
		"image":        input.Image,
		"website_link": input.WebsiteLink,
		"github_link":  input.GithubLink,
		"youtube_link": input.YoutubeLink,
	}).Error; err != nil {
		log.Printf("Error updating project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject removes the hosted image first and only deletes the row once
// the image host confirms, so a remote failure never leaves a project row
// pointing at nothing.
func (e *Env) DeleteProject(c *gin.Context) {
	var input deleteProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var project models.Project
	if err := e.DB.First(&project, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Error fetching project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	publicID := cloudinary.PublicIDFromURL(input.ImageURL, imageFolder)
	if err := e.Images.Destroy(c.Request.Context(), publicID); err != nil {
		log.Printf("Error deleting project image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image from Cloudinary"})
		return
	}

	if err := e.DB.Delete(&project).Error; err != nil {
		log.Printf("Error deleting project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (e *Env) TogglePinProject(c *gin.Context) {
	var project models.Project
	if err := e.DB.First(&project, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		log.Printf("Error fetching project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle pin"})
		return
	}

	if err := e.DB.Model(&project).Update("is_pinned", !project.IsPinned).Error; err != nil {
		log.Printf("Error toggling pin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle pin"})
		return
	}
	c.JSON(http.StatusOK, project)
}
