package backend

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/contract"
)

const validateResumeV1 = `
  mutation ValidateResume($input: ValidateResumeInput!) {
    validateResume(input: $input) {
      score
      feedback
      missingKeywords
    }
  }
`

const validateResumeV2 = `
  mutation ValidateResume($input: ValidateResumeInput!) {
    validateResume(input: $input) {
      score
      feedback
      missingKeywords
      reasoning
    }
  }
`

const tailorResumeV1 = `
  mutation TailorResume($input: TailorResumeInput!) {
    tailorResume(input: $input) {
      tailoredResume {
        summary
        skills
      }
      coverLetter
    }
  }
`

const tailorResumeV2 = `
  mutation TailorResume($input: TailorResumeInput!) {
    tailorResume(input: $input) {
      tailoredResume {
        summary
        skills
        experience {
          title
          company
          startDate
          endDate
          description
        }
      }
      coverLetter
    }
  }
`

const saveResumeDocument = `
  mutation SaveResume($input: SaveResumeInput!) {
    saveResume(input: $input) {
      id
      version
      tags
      createdAt
    }
  }
`

// savedResumeFieldsV1 selects the fields of the original narrow schema.
const savedResumeFieldsV1 = `
        fullName
        email
        phone
        summary
        skills
        experience {
          title
          company
          startDate
          endDate
          description
        }
        education {
          degree
          institution
          graduationDate
        }`

const savedResumeFieldsV2 = savedResumeFieldsV1 + `
        projects {
          title
          description
          techStack
          date
          location
        }
        certificates {
          name
          issuer
          date
          link
        }
        jobTitle
        location
        linkedin
        github
        website
        profileImage
        skillGroups {
          category
          items
        }
        languages {
          language
          proficiency
        }
        achievements {
          title
          description
        }`

const listResumesTemplate = `
  query ListResumes($filter: ListResumesFilter) {
    listResumes(filter: $filter) {
      id
      resume {%s
      }
      tags
      version
      createdAt
    }
  }
`

var (
	listResumesV1 = fmt.Sprintf(listResumesTemplate, savedResumeFieldsV1)
	listResumesV2 = fmt.Sprintf(listResumesTemplate, savedResumeFieldsV2)
)

const deleteResumeDocument = `
  mutation DeleteResume($id: ID!) {
    deleteResume(id: $id)
  }
`

func validateDocument(v contract.SchemaVersion) string {
	if v == contract.V1 {
		return validateResumeV1
	}
	return validateResumeV2
}

func tailorDocument(v contract.SchemaVersion) string {
	if v == contract.V1 {
		return tailorResumeV1
	}
	return tailorResumeV2
}

func listDocument(v contract.SchemaVersion) string {
	if v == contract.V1 {
		return listResumesV1
	}
	return listResumesV2
}
