package model

import "time"

// 固定的初始数据。slot 首次读取（或损坏重建）时播种，
// 之后的增删改都落在存储里，不再回读这里。

func daysAgo(n float64) time.Time {
	return time.Now().Add(-time.Duration(n * 24 * float64(time.Hour)))
}

func DefaultTasks() []Task {
	return []Task{
		{
			ID:          "t1",
			Title:       "Dockerize a Node.js App",
			Description: "Create a Dockerfile for a basic Express.js application. Ensure usage of multi-stage builds to minimize image size. The application listens on port 3000.",
			Difficulty:  Beginner,
			Tools:       []string{"Docker", "Node.js"},
			Category:    "Containerization",
			Points:      10,
			Author:      "cloud_guru",
			CreatedAt:   daysAgo(5),
		},
		{
			ID:          "t2",
			Title:       "Deploy to AWS via Terraform",
			Description: "Write Terraform scripts to provision an EC2 instance, a Security Group allowing port 80/443, and an S3 bucket. Store state remotely if possible.",
			Difficulty:  Intermediate,
			Tools:       []string{"Terraform", "AWS"},
			Category:    "IaC",
			Points:      30,
			Author:      "devops_ninja",
			CreatedAt:   daysAgo(3),
		},
		{
			ID:          "t3",
			Title:       "Setup GitHub Actions CI/CD",
			Description: "Create a workflow that runs tests on every push and deploys to a staging environment on merge to main.",
			Difficulty:  Intermediate,
			Tools:       []string{"GitHub Actions", "Bash"},
			Category:    "CI/CD",
			Points:      25,
			Author:      "automation_queen",
			CreatedAt:   daysAgo(2),
		},
		{
			ID:          "t4",
			Title:       "Kubernetes Ingress Controller",
			Description: "Deploy Nginx Ingress Controller on a local Minikube cluster and configure routing for two microservices.",
			Difficulty:  Advanced,
			Tools:       []string{"Kubernetes", "Helm", "Nginx"},
			Category:    "Orchestration",
			Points:      50,
			Author:      "k8s_fanatic",
			CreatedAt:   daysAgo(10),
		},
		{
			ID:          "t5",
			Title:       "Log Aggregation with ELK",
			Description: "Set up an Elasticsearch, Logstash, and Kibana stack using Docker Compose to visualize logs from a Python app.",
			Difficulty:  Advanced,
			Tools:       []string{"Docker Compose", "Elasticsearch", "Kibana"},
			Category:    "Monitoring",
			Points:      45,
			Author:      "log_master",
			CreatedAt:   daysAgo(15),
		},
		{
			ID:          "t6",
			Title:       "Basic Linux Shell Scripting",
			Description: "Write a script that monitors disk usage and sends an alert if usage exceeds 80%.",
			Difficulty:  Beginner,
			Tools:       []string{"Bash", "Linux"},
			Category:    "Scripting",
			Points:      15,
			Author:      "shell_wizard",
			CreatedAt:   daysAgo(20),
		},
	}
}

func DefaultSubmissions() []Submission {
	return []Submission{
		{
			ID:          "s1",
			TaskID:      "t1",
			TaskTitle:   "Dockerize a Node.js App",
			UserName:    "junior_dev_1",
			RepoLink:    "https://github.com/example/docker-node",
			Timestamp:   daysAgo(1),
			Upvotes:     5,
			Description: "Here is my multi-stage build using alpine images.",
		},
		{
			ID:          "s2",
			TaskID:      "t1",
			TaskTitle:   "Dockerize a Node.js App",
			UserName:    "container_pro",
			RepoLink:    "https://github.com/example/optimized-docker",
			Timestamp:   daysAgo(2),
			Upvotes:     12,
			Description: "Used distroless images for maximum security and minimal size.",
		},
		{
			ID:          "s3",
			TaskID:      "t2",
			TaskTitle:   "Deploy to AWS via Terraform",
			UserName:    "devops_ninja",
			RepoLink:    "https://github.com/devops_ninja/terraform-aws",
			Timestamp:   daysAgo(3),
			Upvotes:     25,
			Description: "Full modular Terraform structure with remote backend state locking.",
		},
	}
}

func DefaultComments() []Comment {
	return []Comment{
		{
			ID:        "c1",
			TaskID:    "t1",
			UserName:  "devops_ninja",
			Text:      "Make sure to ignore node_modules in your .dockerignore file!",
			Timestamp: daysAgo(4),
		},
		{
			ID:        "c2",
			TaskID:    "t1",
			UserName:  "cloud_guru",
			Text:      "Great tip! Also, try using `npm ci` instead of `npm install` for builds.",
			Timestamp: daysAgo(3.9),
		},
	}
}

func DefaultUsers() []User {
	return []User{
		{
			ID:             "u1",
			Username:       "devops_ninja",
			Password:       "password123",
			Role:           RoleAdmin,
			AvatarURL:      "https://picsum.photos/100/100?random=1",
			SolutionsCount: 42,
			Badges:         []string{"Top Contributor", "Docker Pro", "Terraform Master"},
			TotalPoints:    1250,
			Bio:            "Senior DevOps Engineer passionate about automation and IaC.",
			Location:       "San Francisco, CA",
			JoinedAt:       "2023-01-15",
		},
		{
			ID:             "u2",
			Username:       "cloud_walker",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=2",
			SolutionsCount: 28,
			Badges:         []string{"Automation Hero"},
			TotalPoints:    890,
			JoinedAt:       "2023-03-22",
		},
		{
			ID:             "u3",
			Username:       "script_kiddie_v2",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=3",
			SolutionsCount: 15,
			Badges:         []string{"Rising Star"},
			TotalPoints:    450,
			JoinedAt:       "2023-06-10",
		},
		{
			ID:             "u4",
			Username:       "k8s_fanatic",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=4",
			SolutionsCount: 12,
			Badges:         []string{},
			TotalPoints:    320,
			JoinedAt:       "2023-08-05",
		},
		{
			ID:             "u5",
			Username:       "cloud_guru",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=5",
			SolutionsCount: 55,
			Badges:         []string{"Top Contributor"},
			TotalPoints:    1500,
			JoinedAt:       "2022-11-05",
		},
		{
			ID:             "u6",
			Username:       "automation_queen",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=6",
			SolutionsCount: 30,
			Badges:         []string{"Automation Hero"},
			TotalPoints:    950,
			JoinedAt:       "2023-02-14",
		},
		{
			ID:             "u7",
			Username:       "log_master",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=7",
			SolutionsCount: 18,
			Badges:         []string{},
			TotalPoints:    400,
			JoinedAt:       "2023-05-30",
		},
		{
			ID:             "u8",
			Username:       "shell_wizard",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=8",
			SolutionsCount: 22,
			Badges:         []string{"Bug Hunter"},
			TotalPoints:    600,
			JoinedAt:       "2023-04-12",
		},
		{
			ID:             "u9",
			Username:       "junior_dev_1",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=9",
			SolutionsCount: 5,
			Badges:         []string{"Rising Star"},
			TotalPoints:    100,
			JoinedAt:       "2023-09-01",
		},
		{
			ID:             "u10",
			Username:       "container_pro",
			Password:       "password123",
			Role:           RoleUser,
			AvatarURL:      "https://picsum.photos/100/100?random=10",
			SolutionsCount: 25,
			Badges:         []string{"Docker Pro"},
			TotalPoints:    750,
			JoinedAt:       "2023-03-15",
		},
	}
}

func DefaultBadges() []Badge {
	return []Badge{
		{ID: "b1", Name: "Top Contributor", Description: "Reached 1000+ Reputation Points", Tier: Gold, Icon: "Award"},
		{ID: "b2", Name: "Terraform Master", Description: "Submitted 10+ Terraform Solutions", Tier: Silver, Icon: "Server"},
		{ID: "b3", Name: "Docker Pro", Description: "Submitted 5+ Docker Solutions", Tier: Silver, Icon: "Box"},
		{ID: "b4", Name: "Automation Hero", Description: "Created a highly upvoted CI/CD pipeline", Tier: Silver, Icon: "Zap"},
		{ID: "b5", Name: "Rising Star", Description: "Joined and submitted a solution in the first week", Tier: Bronze, Icon: "Star"},
		{ID: "b6", Name: "Bug Hunter", Description: "Fixed a critical issue in a task description", Tier: Bronze, Icon: "Shield"},
	}
}
