package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the task and user endpoints under /api.
func RegisterRoutes(r chi.Router, tasks *TaskHandler, users *UserHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", tasks.CreateTask)
			r.Get("/", tasks.ListTasks)
			r.Get("/unassigned", tasks.ListUnassigned)
			r.Get("/user/{userID}/history", tasks.GetUserTaskHistory)
			r.Get("/user/{userID}", tasks.ListAssignedToUser)
			r.Get("/{taskID}/with-subtasks", tasks.GetTaskWithSubtasks)
			r.Patch("/{taskID}/assign/{userID}", tasks.AssignTask)
			r.Put("/{taskID}", tasks.UpdateTask)
			r.Delete("/{taskID}", tasks.DeleteTask)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.CreateUser)
			r.Get("/{userID}", users.GetUser)
		})
	})
}
